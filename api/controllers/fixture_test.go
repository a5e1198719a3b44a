package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"github.com/cardapiohub/cardapio-backend/api/middleware"
	"github.com/cardapiohub/cardapio-backend/internal/cart"
	"github.com/cardapiohub/cardapio-backend/internal/catalog"
	"github.com/cardapiohub/cardapio-backend/internal/flowconfig"
	"github.com/cardapiohub/cardapio-backend/internal/sessions"
	"github.com/cardapiohub/cardapio-backend/internal/stores"
	"github.com/cardapiohub/cardapio-backend/internal/testdb"
	"github.com/cardapiohub/cardapio-backend/internal/upsell"
	"github.com/cardapiohub/cardapio-backend/pkg/db"
	"github.com/cardapiohub/cardapio-backend/pkg/db/models"
	"github.com/cardapiohub/cardapio-backend/pkg/enums"
	"github.com/cardapiohub/cardapio-backend/pkg/logger"
)

type fixture struct {
	registry  *sessions.Service
	cart      *cart.Service
	reader    *catalog.Repository
	openStore uuid.UUID
	closed    uuid.UUID
	pizzas    uuid.UUID
	grande    uuid.UUID
	calabresa uuid.UUID
	camarao   uuid.UUID
	catupiry  uuid.UUID
	bacon     uuid.UUID
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	conn := testdb.Open(t)
	fx := &fixture{
		openStore: uuid.New(),
		closed:    uuid.New(),
		pizzas:    uuid.New(),
		grande:    uuid.New(),
		calabresa: uuid.New(),
		camarao:   uuid.New(),
		catupiry:  uuid.New(),
		bacon:     uuid.New(),
	}
	drinks := uuid.New()
	testdb.MustCreate(t, conn,
		&models.Store{ID: fx.openStore, Name: "Pizzaria", IsOpen: true, Timezone: "UTC"},
		&models.Store{ID: fx.closed, Name: "Fechada", IsOpen: false, Timezone: "UTC"},
		&models.Category{ID: fx.pizzas, StoreID: fx.openStore, Name: "Pizza", DrinkCategoryID: &drinks},
		&models.Category{ID: drinks, StoreID: fx.openStore, Name: "Bebidas"},
		&models.ProductSize{ID: fx.grande, CategoryID: fx.pizzas, Name: "Grande", MaxFlavors: 2, BasePrice: decimal.RequireFromString("30.00")},
		&models.AttributeOption{ID: fx.calabresa, CategoryID: fx.pizzas, Kind: enums.OptionKindFlavor, Name: "Calabresa", IsActive: true},
		&models.AttributeOption{ID: fx.camarao, CategoryID: fx.pizzas, Kind: enums.OptionKindFlavor, Name: "Camarão", IsPremium: true, IsActive: true, DisplayOrder: 1},
		&models.AttributeOption{ID: fx.catupiry, CategoryID: fx.pizzas, Kind: enums.OptionKindEdge, Name: "Catupiry", IsActive: true},
		&models.AttributePrice{OptionID: fx.calabresa, SizeID: fx.grande, Price: decimal.RequireFromString("30.00")},
		&models.AttributePrice{OptionID: fx.camarao, SizeID: fx.grande, Price: decimal.RequireFromString("38.00"), Surcharge: decimal.RequireFromString("8.00")},
		&models.AttributePrice{OptionID: fx.catupiry, SizeID: fx.grande, Price: decimal.RequireFromString("6.00")},
		&models.Product{ID: uuid.New(), StoreID: fx.openStore, CategoryID: drinks, Name: "Guaraná 2L", Price: decimal.RequireFromString("12.00"), IsActive: true},
		&models.Additional{ID: fx.bacon, CategoryID: fx.pizzas, GroupName: "Carnes", Name: "Bacon", Price: decimal.RequireFromString("4.00"), IsActive: true},
		&models.UpsellPrompt{ID: uuid.New(), StoreID: fx.openStore, TriggerCategoryID: fx.pizzas, ContentType: "additionals", Title: "Turbine sua pizza", MaxProducts: 4, IsActive: true},
	)

	now := func() time.Time { return time.Date(2026, 10, 16, 20, 0, 0, 0, time.UTC) }
	storeSvc, err := stores.NewService(stores.NewRepository(conn), now)
	require.NoError(t, err)
	cartSvc, err := cart.NewService(cart.NewRepository(conn), db.Wrap(conn, db.DialectSQLite), nil)
	require.NoError(t, err)
	fx.reader = catalog.NewRepository(conn)

	registry, err := sessions.NewService(sessions.Deps{
		Catalog:    fx.reader,
		FlowConfig: flowconfig.NewRepository(conn),
		Stores:     storeSvc,
		Cart:       cartSvc,
		Prompts:    upsell.NewRepository(conn),
		QuickAdd:   upsell.NewCatalogQuickAdd(fx.reader, 6),
		Now:        now,
	})
	require.NoError(t, err)
	fx.registry = registry
	fx.cart = cartSvc
	return fx
}

// call invokes handler as if routed, with the store scope already applied.
func call(t *testing.T, handler http.HandlerFunc, method string, storeID uuid.UUID, params map[string]string, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, "/", strings.NewReader(body))
	routeCtx := chi.NewRouteContext()
	for k, v := range params {
		routeCtx.URLParams.Add(k, v)
	}
	ctx := middleware.WithStoreID(req.Context(), storeID)
	ctx = context.WithValue(ctx, chi.RouteCtxKey, routeCtx)
	resp := httptest.NewRecorder()
	handler(resp, req.WithContext(ctx))
	return resp
}

func sessionParams(id uuid.UUID) map[string]string {
	return map[string]string{SessionIDParam: id.String()}
}

func testLogger() *logger.Logger {
	return logger.Nop()
}

type sessionBody struct {
	SessionID uuid.UUID `json:"session_id"`
	Flow      struct {
		State     string `json:"state"`
		Selection struct {
			Notes       string          `json:"notes"`
			Description string          `json:"description"`
			UnitPrice   decimal.Decimal `json:"unit_price"`
		} `json:"selection"`
	} `json:"flow"`
	Outcome *struct {
		State     string `json:"state"`
		Finalized *struct {
			Item struct {
				UnitPrice   decimal.Decimal `json:"unit_price"`
				Description string          `json:"description"`
			} `json:"item"`
		} `json:"finalized"`
	} `json:"outcome"`
	Upsell struct {
		Closed bool `json:"closed"`
		Prompt *struct {
			ContentType string `json:"content_type"`
		} `json:"prompt"`
		AdditionalGroups []json.RawMessage `json:"additional_groups"`
	} `json:"upsell"`
	UpsellOutcome *struct {
		Advanced bool `json:"advanced"`
		Closed   bool `json:"closed"`
	} `json:"upsell_outcome"`
	Notices []struct {
		Level   string `json:"level"`
		Message string `json:"message"`
	} `json:"notices"`
}

type errorBody struct {
	Error struct {
		Code    string            `json:"code"`
		Message string            `json:"message"`
		Details map[string]any    `json:"details"`
	} `json:"error"`
	Data *sessionBody `json:"data"`
}

func decodeSession(t *testing.T, resp *httptest.ResponseRecorder) sessionBody {
	t.Helper()
	var envelope struct {
		Data sessionBody `json:"data"`
	}
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &envelope), resp.Body.String())
	return envelope.Data
}

func decodeError(t *testing.T, resp *httptest.ResponseRecorder) errorBody {
	t.Helper()
	var body errorBody
	require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &body), resp.Body.String())
	return body
}
