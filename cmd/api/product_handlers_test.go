package main

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	prod "github.com/MikeMC777/tienda-api/internal/product"
)

//
// ===== STUB REPO EN MEMORIA (implementa product.Repository) =====
//

type stubProductRepo struct {
	order []string // insertion order
	items map[string]*prod.Product
}

func newStubProductRepo() *stubProductRepo {
	return &stubProductRepo{items: make(map[string]*prod.Product)}
}

func (s *stubProductRepo) Create(ctx context.Context, p *prod.Product) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	cp := *p
	cp.CreatedAt = time.Now().UTC()
	cp.UpdatedAt = cp.CreatedAt
	s.items[p.ID] = &cp
	s.order = append(s.order, p.ID)
	return nil
}

func (s *stubProductRepo) GetByID(ctx context.Context, id string) (*prod.Product, error) {
	p, ok := s.items[id]
	if !ok {
		return nil, prod.ErrNotFound
	}
	cp := *p
	return &cp, nil
}

func (s *stubProductRepo) List(ctx context.Context) ([]prod.Product, error) {
	out := make([]prod.Product, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, *s.items[id])
	}
	return out, nil
}

// Mismas reglas que el SQL: cadenas vacías no pisan, price/quantity solo con flag.
func (s *stubProductRepo) Update(ctx context.Context, p *prod.Product, setPrice, setQuantity bool) error {
	cur, ok := s.items[p.ID]
	if !ok {
		return prod.ErrNotFound
	}
	if p.Name != "" {
		cur.Name = p.Name
	}
	if p.Image != "" {
		cur.Image = p.Image
	}
	if setPrice {
		cur.Price = p.Price
	}
	if setQuantity {
		cur.Quantity = p.Quantity
	}
	cur.UpdatedAt = time.Now().UTC()
	return nil
}

func (s *stubProductRepo) Delete(ctx context.Context, id string) (bool, error) {
	if _, ok := s.items[id]; !ok {
		return false, nil
	}
	delete(s.items, id)
	for i, v := range s.order {
		if v == id {
			s.order = append(s.order[:i], s.order[i+1:]...)
			break
		}
	}
	return true, nil
}

func newProductRouter(repo prod.Repository) *gin.Engine {
	gin.SetMode(gin.TestMode)
	r := gin.New()
	registerProductRoutes(r, repo)
	return r
}

func doJSON(r *gin.Engine, method, path, body string) *httptest.ResponseRecorder {
	w := httptest.NewRecorder()
	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, bytes.NewBufferString(body))
		req.Header.Set("Content-Type", "application/json")
	}
	r.ServeHTTP(w, req)
	return w
}

//
// ===== TESTS =====
//

// POST /product
func TestCreateProduct_Valid_And_Invalid(t *testing.T) {
	repo := newStubProductRepo()
	r := newProductRouter(repo)

	// válido
	w := doJSON(r, http.MethodPost, "/product", `{"name":"Starter Kit","image":"https://cdn/x.png","price":"49.90","quantity":10}`)
	if w.Code != http.StatusCreated {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	var created struct {
		Msg string `json:"msg"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &created)
	if created.Msg != "Product created!" {
		t.Fatalf("msg=%q", created.Msg)
	}

	// inválido: falta image ⇒ 400 y nombra el campo
	w = doJSON(r, http.MethodPost, "/product", `{"name":"Bad","price":"1.00","quantity":1}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("esperaba 400, got %d body=%s", w.Code, w.Body.String())
	}
	var verr struct {
		Field string `json:"field"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &verr)
	if verr.Field != "image" {
		t.Fatalf("field=%q, esperaba image. body=%s", verr.Field, w.Body.String())
	}

	// inválido: price no numérico
	w = doJSON(r, http.MethodPost, "/product", `{"name":"Bad","image":"i.png","price":"abc","quantity":1}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("esperaba 400 por price, got %d", w.Code)
	}
	var perr struct {
		Error string `json:"error"`
		Field string `json:"field"`
	}
	_ = json.Unmarshal(w.Body.Bytes(), &perr)
	if perr.Field != "price" || perr.Error != "must be numeric" {
		t.Fatalf("respuesta inesperada: %s", w.Body.String())
	}

	// inválido: quantity negativa
	w = doJSON(r, http.MethodPost, "/product", `{"name":"Bad","image":"i.png","price":"1.00","quantity":-1}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("esperaba 400 por quantity negativa, got %d", w.Code)
	}
}

// GET /products/:id — round-trip tras crear
func TestGetProduct_RoundTrip_And_NotFound(t *testing.T) {
	repo := newStubProductRepo()
	p := &prod.Product{Name: "Headset", Image: "https://cdn/h.png", Price: "149.90", Quantity: 7}
	_ = repo.Create(context.Background(), p)
	r := newProductRouter(repo)

	w := doJSON(r, http.MethodGet, "/products/"+p.ID, "")
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	var got struct {
		ID       string `json:"id"`
		Name     string `json:"name"`
		Image    string `json:"image"`
		Price    string `json:"price"`
		Quantity int    `json:"quantity"`
		Selected *bool  `json:"selected"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("json inválido: %v", err)
	}
	if got.Name != "Headset" || got.Image != "https://cdn/h.png" || got.Price != "149.90" || got.Quantity != 7 {
		t.Fatalf("round-trip roto: %+v", got)
	}
	if got.Selected == nil || *got.Selected {
		t.Fatalf("selected debe venir en false: body=%s", w.Body.String())
	}

	// 404
	w = doJSON(r, http.MethodGet, "/products/nope", "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("esperaba 404, got %d", w.Code)
	}
}

// GET /products — array plano en orden de inserción
func TestListProducts_InsertionOrder(t *testing.T) {
	repo := newStubProductRepo()
	for i := 1; i <= 3; i++ {
		_ = repo.Create(context.Background(), &prod.Product{
			ID:       fmt.Sprintf("%d", i),
			Name:     fmt.Sprintf("Prod %d", i),
			Image:    "i.png",
			Price:    "10.00",
			Quantity: 5,
		})
	}
	r := newProductRouter(repo)

	w := doJSON(r, http.MethodGet, "/products", "")
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	var got []struct {
		ID string `json:"id"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &got); err != nil {
		t.Fatalf("json inválido: %v", err)
	}
	if len(got) != 3 || got[0].ID != "1" || got[2].ID != "3" {
		t.Fatalf("orden inesperado: %+v", got)
	}
}

// PUT /products/:id — parcial: image vacía no pisa la almacenada
func TestUpdateProduct_EmptyImageLeavesStored(t *testing.T) {
	repo := newStubProductRepo()
	p := &prod.Product{Name: "Mouse", Image: "https://cdn/m.png", Price: "10.00", Quantity: 5}
	_ = repo.Create(context.Background(), p)
	r := newProductRouter(repo)

	w := doJSON(r, http.MethodPut, "/products/"+p.ID, `{"name":"Mouse 2","image":""}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	got, _ := repo.GetByID(context.Background(), p.ID)
	if got.Name != "Mouse 2" || got.Image != "https://cdn/m.png" || got.Price != "10.00" {
		t.Fatalf("update parcial no respetado: %+v", got)
	}

	// con price y quantity sí cambia
	w = doJSON(r, http.MethodPut, "/products/"+p.ID, `{"price":"12.50","quantity":4}`)
	if w.Code != http.StatusOK {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}
	got, _ = repo.GetByID(context.Background(), p.ID)
	if got.Price != "12.50" || got.Quantity != 4 {
		t.Fatalf("update con price/quantity no aplicado: %+v", got)
	}

	// inválido: quantity negativa ⇒ 400
	w = doJSON(r, http.MethodPut, "/products/"+p.ID, `{"quantity":-3}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("esperaba 400, got %d", w.Code)
	}

	// 404 si no existe
	w = doJSON(r, http.MethodPut, "/products/nope", `{"name":"X"}`)
	if w.Code != http.StatusNotFound {
		t.Fatalf("esperaba 404, got %d body=%s", w.Code, w.Body.String())
	}
}

// DELETE /products/:id
func TestDeleteProduct_OK_And_NotFound(t *testing.T) {
	repo := newStubProductRepo()
	p := &prod.Product{Name: "X", Image: "x.png", Price: "1.00", Quantity: 1}
	_ = repo.Create(context.Background(), p)
	r := newProductRouter(repo)

	w := doJSON(r, http.MethodDelete, "/products/"+p.ID, "")
	if w.Code != http.StatusNoContent {
		t.Fatalf("status=%d body=%s", w.Code, w.Body.String())
	}

	w = doJSON(r, http.MethodDelete, "/products/"+p.ID, "")
	if w.Code != http.StatusNotFound {
		t.Fatalf("esperaba 404, got %d body=%s", w.Code, w.Body.String())
	}
}

func init() {
	gin.SetMode(gin.TestMode)
	gin.DefaultWriter = io.Discard
	log.SetOutput(io.Discard)
}
