//go:build pact
// +build pact

package consumer_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"testing"
	"time"

	pacttest "github.com/Apurer/go-gin-ecommerce-api/test/pact"

	pactconsumer "github.com/pact-foundation/pact-go/v2/consumer"
	pactlog "github.com/pact-foundation/pact-go/v2/log"
	"github.com/pact-foundation/pact-go/v2/matchers"
	"github.com/stretchr/testify/require"
)

const consumerToken = "eyJhbGciOiJIUzI1NiJ9.storefront.signature"

type envelope struct {
	Message string          `json:"message"`
	Token   string          `json:"token"`
	Data    json.RawMessage `json:"data"`
}

type product struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Price string `json:"price"`
	Stock int    `json:"stock"`
}

type order struct {
	ID    string `json:"id"`
	Total string `json:"total"`
}

type orderLine struct {
	ID       string `json:"id"`
	Quantity int    `json:"quantity"`
}

type placeOrderRequest struct {
	User     string      `json:"user"`
	Products []orderLine `json:"products"`
}

type problemDetail struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail"`
}

type apiError struct {
	status  int
	problem problemDetail
}

func (e apiError) Error() string {
	return fmt.Sprintf("%s: %s (status %d)", e.problem.Title, e.problem.Detail, e.status)
}

func TestStorefrontContract(t *testing.T) {
	pactlog.SetLogLevel("INFO")

	pact, err := pactconsumer.NewV2Pact(pactconsumer.MockHTTPProviderConfig{
		Consumer: pacttest.ConsumerName,
		Provider: pacttest.ProviderName,
		PactDir:  pacttest.PactDir(t),
		LogDir:   pacttest.LogDir(t),
	})
	require.NoError(t, err)

	jsonContentType := matchers.Regex("application/json; charset=utf-8", "application\\/json(?:;\\s?charset=utf-8)?")
	problemContentType := matchers.S("application/problem+json")
	bearer := matchers.Regex("Bearer "+consumerToken, "^Bearer .+$")
	orderBody := placeOrderRequest{
		User:     pacttest.ShopperID,
		Products: []orderLine{{ID: pacttest.KeyboardID, Quantity: 2}},
	}
	soldOutBody := placeOrderRequest{
		User:     pacttest.ShopperID,
		Products: []orderLine{{ID: pacttest.KeyboardID, Quantity: 1}},
	}

	pact.AddInteraction().
		Given(pacttest.StateCatalog).
		UponReceiving("a request for a product in the catalog").
		WithRequest("GET", "/products/"+pacttest.KeyboardID).
		WillRespondWith(http.StatusOK, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(matchers.Map{
				"data": matchers.Map{
					"id":          matchers.S(pacttest.KeyboardID),
					"name":        matchers.Like(pacttest.KeyboardName),
					"description": matchers.Like("Wireless mechanical keyboard"),
					"price":       matchers.Like(pacttest.KeyboardPrice),
					"stock":       matchers.Like(pacttest.KeyboardStock),
					"imgUrl":      matchers.Like("No image"),
					"category": matchers.Map{
						"id":   matchers.Like(pacttest.CategoryID),
						"name": matchers.Like(pacttest.CategoryName),
					},
				},
			})
		})

	pact.AddInteraction().
		Given(pacttest.StateProductMissing).
		UponReceiving("a request for a product that does not exist").
		WithRequest("GET", "/products/"+pacttest.MissingProductID).
		WillRespondWith(http.StatusNotFound, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", problemContentType)
			b.JSONBody(matchers.Map{
				"type":   matchers.S("/problems/not-found"),
				"title":  matchers.Like("Resource Not Found"),
				"status": matchers.Like(http.StatusNotFound),
			})
		})

	pact.AddInteraction().
		Given(pacttest.StateShopperExists).
		UponReceiving("a sign in with valid credentials").
		WithRequest("POST", "/auth/signin", func(b *pactconsumer.V2RequestBuilder) {
			b.Header("Content-Type", matchers.S("application/json"))
			b.JSONBody(map[string]string{
				"email":    pacttest.ShopperEmail,
				"password": pacttest.ShopperPassword,
			})
		}).
		WillRespondWith(http.StatusOK, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(matchers.Map{
				"token": matchers.Like(consumerToken),
				"data": matchers.Map{
					"id":    matchers.S(pacttest.ShopperID),
					"email": matchers.S(pacttest.ShopperEmail),
				},
			})
		})

	pact.AddInteraction().
		Given(pacttest.StateShopperCanOrder).
		UponReceiving("an order for two keyboards").
		WithRequest("POST", "/orders", func(b *pactconsumer.V2RequestBuilder) {
			b.Header("Content-Type", matchers.S("application/json"))
			b.Header("Authorization", bearer)
			b.JSONBody(orderBody)
		}).
		WillRespondWith(http.StatusCreated, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", jsonContentType)
			b.JSONBody(matchers.Map{
				"message": matchers.S("Order created successfully"),
				"data": matchers.Map{
					"id":    matchers.Like("5b0f8e5a-7f8c-4b59-9d5e-0f2f5c1b7a44"),
					"total": matchers.Like("179.98"),
					"user": matchers.Map{
						"id": matchers.S(pacttest.ShopperID),
					},
				},
			})
		})

	pact.AddInteraction().
		Given(pacttest.StateKeyboardSoldOut).
		UponReceiving("an order for a sold out keyboard").
		WithRequest("POST", "/orders", func(b *pactconsumer.V2RequestBuilder) {
			b.Header("Content-Type", matchers.S("application/json"))
			b.Header("Authorization", bearer)
			b.JSONBody(soldOutBody)
		}).
		WillRespondWith(http.StatusBadRequest, func(b *pactconsumer.V2ResponseBuilder) {
			b.Header("Content-Type", problemContentType)
			b.JSONBody(matchers.Map{
				"type":   matchers.S("/problems/insufficient-stock"),
				"status": matchers.Like(http.StatusBadRequest),
				"detail": matchers.Like("insufficient stock for product Keychron K2. Available: 0"),
				"extensions": matchers.Map{
					"productId": matchers.S(pacttest.KeyboardID),
					"available": matchers.Like(0),
				},
			})
		})

	err = pact.ExecuteTest(t, func(config pactconsumer.MockServerConfig) error {
		client := newStorefrontClient(config)
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		keyboard, err := client.GetProduct(ctx, pacttest.KeyboardID)
		if err != nil {
			return fmt.Errorf("get product: %w", err)
		}
		if keyboard.ID != pacttest.KeyboardID {
			return fmt.Errorf("expected product %s, got %+v", pacttest.KeyboardID, keyboard)
		}

		if _, err := client.GetProduct(ctx, pacttest.MissingProductID); err == nil {
			return fmt.Errorf("expected 404 for product %s", pacttest.MissingProductID)
		} else if apiErr, ok := err.(apiError); !ok || apiErr.status != http.StatusNotFound {
			return fmt.Errorf("expected 404, got %v", err)
		}

		token, err := client.SignIn(ctx, pacttest.ShopperEmail, pacttest.ShopperPassword)
		if err != nil {
			return fmt.Errorf("sign in: %w", err)
		}

		placed, err := client.PlaceOrder(ctx, token, orderBody)
		if err != nil {
			return fmt.Errorf("place order: %w", err)
		}
		if placed.ID == "" {
			return fmt.Errorf("expected order id to be set")
		}

		if _, err := client.PlaceOrder(ctx, token, soldOutBody); err == nil {
			return fmt.Errorf("expected sold out order to fail")
		} else if apiErr, ok := err.(apiError); !ok || apiErr.problem.Type != "/problems/insufficient-stock" {
			return fmt.Errorf("expected insufficient stock problem, got %v", err)
		}
		return nil
	})
	require.NoError(t, err)
}

type storefrontClient struct {
	baseURL    string
	httpClient *http.Client
}

func newStorefrontClient(config pactconsumer.MockServerConfig) *storefrontClient {
	host := config.Host
	if host == "" {
		host = "localhost"
	}
	transport := &http.Transport{TLSClientConfig: config.TLSConfig}
	return &storefrontClient{
		baseURL:    fmt.Sprintf("http://%s:%d", host, config.Port),
		httpClient: &http.Client{Transport: transport, Timeout: 10 * time.Second},
	}
}

func (c *storefrontClient) GetProduct(ctx context.Context, id string) (*product, error) {
	var out product
	if _, err := c.do(ctx, http.MethodGet, "/products/"+id, "", nil, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *storefrontClient) SignIn(ctx context.Context, email, password string) (string, error) {
	env, err := c.do(ctx, http.MethodPost, "/auth/signin", "", map[string]string{"email": email, "password": password}, nil)
	if err != nil {
		return "", err
	}
	return env.Token, nil
}

func (c *storefrontClient) PlaceOrder(ctx context.Context, token string, body placeOrderRequest) (*order, error) {
	var out order
	if _, err := c.do(ctx, http.MethodPost, "/orders", token, body, &out); err != nil {
		return nil, err
	}
	return &out, nil
}

func (c *storefrontClient) do(ctx context.Context, method, path, token string, body, data any) (*envelope, error) {
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		if err != nil {
			return nil, err
		}
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	res, err := c.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()

	if res.StatusCode >= http.StatusBadRequest {
		var problem problemDetail
		_ = json.NewDecoder(res.Body).Decode(&problem)
		return nil, apiError{status: res.StatusCode, problem: problem}
	}
	var env envelope
	if err := json.NewDecoder(res.Body).Decode(&env); err != nil {
		return nil, err
	}
	if data != nil && len(env.Data) > 0 {
		if err := json.Unmarshal(env.Data, data); err != nil {
			return nil, err
		}
	}
	return &env, nil
}
