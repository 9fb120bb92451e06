package cart_test

import (
	"context"
	"net/http/httptest"
	"testing"
	"time"

	"quickcart/apiclient"
	"quickcart/cart"
	"quickcart/controllers"
	"quickcart/models"
	"quickcart/notify"
	"quickcart/repository"
	"quickcart/routes"
	"quickcart/session"

	"github.com/gorilla/mux"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"golang.org/x/crypto/bcrypt"
)

type nopMailer struct{}

func (nopMailer) SendVerificationEmail(string, string) error { return nil }

func TestStoreAgainstServer(t *testing.T) {
	ctx := context.Background()
	lamp := models.Product{ID: primitive.NewObjectID(), Name: "Lamp", Price: 20, OfferPrice: 12.25}
	users := repository.NewMemoryUsers()
	products := repository.NewMemoryProducts(lamp)

	hash, err := bcrypt.GenerateFromPassword([]byte("correct-horse"), bcrypt.MinCost)
	require.NoError(t, err)
	account := &models.User{
		Email:      "ann@example.com",
		Password:   string(hash),
		Role:       models.RoleUser,
		IsVerified: true,
		CartItems:  models.CartItems{lamp.ID.Hex(): 1},
	}
	require.NoError(t, users.Create(ctx, account))

	timeout := time.Second
	router := mux.NewRouter()
	routes.RegisterRoutes(router, users, timeout,
		controllers.NewUserController(users, nopMailer{}, timeout, nil),
		controllers.NewAuthController(users, session.NewRegistry(), session.NewStateStore([]byte("0123456789abcdef0123456789abcdef"), false), timeout),
		controllers.NewProductController(products, timeout),
		controllers.NewCartController(users, timeout),
	)
	srv := httptest.NewServer(router)
	defer srv.Close()

	client := apiclient.New(srv.URL, srv.Client())
	holder := session.NewHolder()
	rec := &notify.Recorder{}
	store := cart.NewStore(client, holder, rec, cart.Options{})

	store.Start(ctx)
	assert.Len(t, store.Products(), 1)
	assert.Empty(t, store.Items())

	store.AddToCart(lamp.ID.Hex())
	assert.Equal(t, []notify.Message{{Level: notify.LevelWarn, Text: cart.MsgLoginRequired}}, rec.Drain())

	s, err := client.Login(ctx, "ann@example.com", "correct-horse")
	require.NoError(t, err)
	holder.Set(s)
	store.SyncSession(ctx)
	assert.Equal(t, map[string]int{lamp.ID.Hex(): 1}, store.Items())

	store.AddToCart(lamp.ID.Hex())
	store.Wait()
	assert.Equal(t, []notify.Message{{Level: notify.LevelSuccess, Text: cart.MsgItemAdded}}, rec.Drain())

	amount, err := store.CartAmount()
	require.NoError(t, err)
	assert.Equal(t, 24.5, amount)

	stored, err := users.FindByID(ctx, account.ID.Hex())
	require.NoError(t, err)
	assert.Equal(t, models.CartItems{lamp.ID.Hex(): 2}, stored.CartItems)

	store.UpdateCartQuantity(lamp.ID.Hex(), 0)
	store.Wait()
	stored, err = users.FindByID(ctx, account.ID.Hex())
	require.NoError(t, err)
	assert.Empty(t, stored.CartItems)
	assert.Equal(t, 0, store.CartCount())
}
