// Command storefront signs in against a running QuickCart API, adds the
// product ids given as arguments to the cart and prints the resulting
// count and total.
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"quickcart/apiclient"
	"quickcart/cart"
	"quickcart/config"
	"quickcart/notify"
	"quickcart/session"
	"quickcart/utils"

	"go.uber.org/zap"
)

func main() {
	cfg := config.Load()

	logger, err := utils.InitLogger(cfg.Development())
	if err != nil {
		panic(err)
	}
	defer func() { _ = logger.Sync() }()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	client := apiclient.New(cfg.BaseURL, nil)
	recorder := &notify.Recorder{}
	store, err := shop(ctx, client, os.Getenv("SHOPPER_EMAIL"), os.Getenv("SHOPPER_PASSWORD"), os.Args[1:],
		notify.Multi{notify.NewLogger(nil), recorder}, cart.Options{Currency: cfg.Currency, PersistTimeout: cfg.RequestTimeout})
	if err != nil {
		zap.L().Fatal("storefront session failed", zap.Error(err))
	}

	amount, err := store.CartAmount()
	if err != nil {
		zap.L().Error("failed to price cart", zap.Error(err))
	}
	failed := 0
	for _, m := range recorder.Drain() {
		if m.Level == notify.LevelError {
			failed++
		}
	}
	zap.L().Info("cart ready",
		zap.Int("count", store.CartCount()),
		zap.Float64("amount", amount),
		zap.String("currency", store.Currency()),
		zap.Int("failed_updates", failed),
	)
}

// shop signs in when credentials are given, loads the catalog and stored
// cart, then adds one of each product id and waits for the updates to land.
func shop(ctx context.Context, client *apiclient.Client, email, password string, productIDs []string, notifier notify.Notifier, opts cart.Options) (*cart.Store, error) {
	holder := session.NewHolder()
	if email != "" {
		sess, err := client.Login(ctx, email, password)
		if err != nil {
			return nil, err
		}
		holder.Set(sess)
	}

	store := cart.NewStore(client, holder, notifier, opts)
	store.Start(ctx)
	for _, id := range productIDs {
		store.AddToCart(id)
	}
	store.Wait()
	return store, nil
}
