package server

import (
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/jonathan/car-advisor/internal/catalog"
	"github.com/jonathan/car-advisor/internal/types"
	"github.com/jonathan/car-advisor/internal/validation"
)

// CarListResponse is the response for GET /api/cars
type CarListResponse struct {
	Cars  []types.Car `json:"cars"`
	Count int         `json:"count"`
}

// handleListCars lists catalog cars, optionally filtered by make, type, fuelType and price range
func (s *Server) handleListCars(w http.ResponseWriter, r *http.Request) {
	filter, err := parseCarFilter(r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	matched, err := catalog.List(r.Context(), s.cars, filter)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	s.jsonResponse(w, http.StatusOK, CarListResponse{Cars: matched, Count: len(matched)})
}

// handleGetCar returns one car by id
func (s *Server) handleGetCar(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	car, ok, err := catalog.Lookup(r.Context(), s.cars, id)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	if !ok {
		s.writeError(w, r, &ErrCarNotFound{ID: id})
		return
	}
	s.jsonResponse(w, http.StatusOK, car)
}

func parseCarFilter(r *http.Request) (catalog.CarFilter, error) {
	q := r.URL.Query()
	filter := catalog.CarFilter{
		Make:     q.Get("make"),
		Type:     q.Get("type"),
		FuelType: q.Get("fuelType"),
	}

	verr := &validation.Error{}
	filter.MinPrice = parsePrice(q.Get("minPrice"), "minPrice", verr)
	filter.MaxPrice = parsePrice(q.Get("maxPrice"), "maxPrice", verr)
	if filter.MinPrice > 0 && filter.MaxPrice > 0 && filter.MaxPrice < filter.MinPrice {
		verr.Add("maxPrice", "gtefield", "must be greater than or equal to minPrice")
	}

	if len(verr.Fields) > 0 {
		return catalog.CarFilter{}, verr
	}
	return filter, nil
}

func parsePrice(raw, field string, verr *validation.Error) float64 {
	if raw == "" {
		return 0
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil || v < 0 {
		verr.Add(field, "number", "must be a non-negative number")
		return 0
	}
	return v
}
