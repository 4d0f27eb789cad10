package storefront

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dukerupert/festa/internal/domain"
	"github.com/dukerupert/festa/internal/kit"
	"github.com/dukerupert/festa/internal/ribbon"
	"github.com/dukerupert/festa/internal/service"
)

func decodeErr(t *testing.T, w *httptest.ResponseRecorder) (code string, fields map[string]string) {
	t.Helper()
	var body struct {
		Error struct {
			Code   string            `json:"code"`
			Fields map[string]string `json:"fields"`
		} `json:"error"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	return body.Error.Code, body.Error.Fields
}

func TestKitHandler_AddItem(t *testing.T) {
	itemID := uuid.New()

	tests := []struct {
		name       string
		body       string
		serviceErr error
		wantStatus int
		wantCode   string
		wantField  string
	}{
		{
			name:       "adds item",
			body:       `{"component_id":"` + itemID.String() + `","quantity":2}`,
			wantStatus: http.StatusOK,
		},
		{
			name:       "capacity rejection is a conflict",
			body:       `{"component_id":"` + itemID.String() + `","quantity":2}`,
			serviceErr: domain.WrapError(kit.ErrCapacityExceeded, domain.ECONFLICT, "kit.add_item", "Kit capacity exceeded"),
			wantStatus: http.StatusConflict,
			wantCode:   domain.ECONFLICT,
		},
		{
			name:       "zero quantity",
			body:       `{"component_id":"` + itemID.String() + `","quantity":0}`,
			wantStatus: http.StatusBadRequest,
			wantCode:   domain.EINVALID,
			wantField:  "quantity",
		},
		{
			name:       "missing component",
			body:       `{"quantity":1}`,
			wantStatus: http.StatusBadRequest,
			wantCode:   domain.EINVALID,
			wantField:  "component_id",
		},
		{
			name:       "unknown field",
			body:       `{"component_id":"` + itemID.String() + `","quantity":1,"qty":3}`,
			wantStatus: http.StatusBadRequest,
			wantCode:   domain.EINVALID,
			wantField:  "qty",
		},
		{
			name:       "malformed json",
			body:       `{"component_id":`,
			wantStatus: http.StatusBadRequest,
			wantCode:   domain.EINVALID,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var gotID uuid.UUID
			var gotQty int
			kits := &mockKitService{
				addItemFunc: func(ctx context.Context, sessionID string, componentID uuid.UUID, quantity int) (*service.KitView, error) {
					assert.Equal(t, testSession, sessionID)
					gotID, gotQty = componentID, quantity
					if tt.serviceErr != nil {
						return nil, tt.serviceErr
					}
					v := emptyKit()
					v.ItemCount = quantity
					return v, nil
				},
			}
			h := NewKitHandler(kits)

			w := httptest.NewRecorder()
			h.AddItem(w, newRequest(http.MethodPost, "/api/kit/items", tt.body))

			assert.Equal(t, tt.wantStatus, w.Code)
			if tt.wantCode != "" {
				code, fields := decodeErr(t, w)
				assert.Equal(t, tt.wantCode, code)
				if tt.wantField != "" {
					assert.Contains(t, fields, tt.wantField)
				}
				return
			}
			assert.Equal(t, itemID, gotID)
			assert.Equal(t, 2, gotQty)

			var view service.KitView
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
			assert.Equal(t, 2, view.ItemCount)
		})
	}
}

func TestKitHandler_RequiresSession(t *testing.T) {
	h := NewKitHandler(&mockKitService{})

	w := httptest.NewRecorder()
	h.Get(w, httptest.NewRequest(http.MethodGet, "/api/kit", nil))

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestKitHandler_Start(t *testing.T) {
	recipe := uuid.New()
	var got uuid.NullUUID
	h := NewKitHandler(&mockKitService{
		startFunc: func(ctx context.Context, sessionID string, recipeID uuid.NullUUID) (*service.KitView, error) {
			got = recipeID
			return emptyKit(), nil
		},
	})

	w := httptest.NewRecorder()
	h.Start(w, newRequest(http.MethodPost, "/api/kit/start", `{"recipe_id":"`+recipe.String()+`"}`))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, uuid.NullUUID{UUID: recipe, Valid: true}, got)

	w = httptest.NewRecorder()
	h.Start(w, newRequest(http.MethodPost, "/api/kit/start", ""))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.False(t, got.Valid)
}

func TestKitHandler_SetRibbon(t *testing.T) {
	primary := uuid.New()
	var got service.RibbonChoice
	h := NewKitHandler(&mockKitService{
		setRibbonFunc: func(ctx context.Context, sessionID string, choice service.RibbonChoice) (*service.KitView, error) {
			got = choice
			return emptyKit(), nil
		},
	})

	w := httptest.NewRecorder()
	h.SetRibbon(w, newRequest(http.MethodPut, "/api/kit/ribbon",
		`{"kind":"custom","style":"double","size":"M","primary_id":"`+primary.String()+`"}`))

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, kit.RibbonCustom, got.Kind)
	assert.Equal(t, ribbon.StyleDouble, got.Style)
	assert.Equal(t, domain.CapacityMedium, got.Size)
	assert.Equal(t, primary, got.PrimaryID.UUID)
	assert.False(t, got.SecondaryID.Valid)

	w = httptest.NewRecorder()
	h.SetRibbon(w, newRequest(http.MethodPut, "/api/kit/ribbon", `{"kind":"glitter"}`))
	assert.Equal(t, http.StatusBadRequest, w.Code)
	_, fields := decodeErr(t, w)
	assert.Contains(t, fields, "kind")
}

func TestKitHandler_UpdateItemPathID(t *testing.T) {
	h := NewKitHandler(&mockKitService{})

	req := newRequest(http.MethodPatch, "/api/kit/items/nope", `{"quantity":1}`)
	req.SetPathValue("id", "nope")
	w := httptest.NewRecorder()
	h.UpdateItem(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	_, fields := decodeErr(t, w)
	assert.Contains(t, fields, "id")
}

func TestKitHandler_Finalize(t *testing.T) {
	h := NewKitHandler(&mockKitService{
		finalizeFunc: func(ctx context.Context, sessionID string) (*service.CartView, error) {
			v := emptyCart()
			v.Total = decimal.NewFromInt(45)
			v.Count = 1
			return v, nil
		},
	})

	w := httptest.NewRecorder()
	h.Finalize(w, newRequest(http.MethodPost, "/api/kit/finalize", ""))

	assert.Equal(t, http.StatusCreated, w.Code)
	var view service.CartView
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &view))
	assert.True(t, decimal.NewFromInt(45).Equal(view.Total))
}

func TestKitHandler_WrapperOptionsEmptyList(t *testing.T) {
	h := NewKitHandler(&mockKitService{})

	w := httptest.NewRecorder()
	h.WrapperOptions(w, newRequest(http.MethodGet, "/api/kit/wrappers", ""))

	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"wrappers":[]}`, w.Body.String())
}
