package http

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-kit/log"
	"go-currency-converter/catalog"
	"go-currency-converter/domain"
	"go-currency-converter/exchange"
)

// maxRequestBytes caps a convert request body
const maxRequestBytes = 1 << 16

// Server dependencies for HTTP Server functions
type Server struct {
	Service exchange.Service
	Catalog *catalog.Catalog
	Logger  log.Logger

	// Timeout bounds a single conversion, including retries against the rate provider
	Timeout time.Duration

	router chi.Router
}

func NewServer(s exchange.Service, c *catalog.Catalog, logger log.Logger) *Server {
	server := &Server{
		Service: s,
		Catalog: c,
		Logger:  logger,
		Timeout: 30 * time.Second,
		router:  chi.NewRouter(),
	}
	server.routes()
	return server
}

func (s *Server) routes() {
	s.router.Use(middleware.Recoverer)
	s.router.Get("/api/currencies", s.currencies())
	s.router.Post("/api/convert", s.convert())
}

func (s *Server) ServeHTTP(rw http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(rw, r)
}

// currencies produces HTTP handler listing the currencies that can be converted
func (s *Server) currencies() http.HandlerFunc {
	type response struct {
		Currencies []domain.Entry `json:"currencies"`
	}

	return func(rw http.ResponseWriter, r *http.Request) {
		s.respond(rw, http.StatusOK, response{Currencies: s.Catalog.Entries()})
	}
}

// convert produces HTTP handler for currency conversions
func (s *Server) convert() http.HandlerFunc {

	// request for unmarshalling JSON requests posted by clients.
	// From and To take a display name or a currency code.
	type request struct {
		From   string          `json:"from"`
		To     string          `json:"to"`
		Amount json.RawMessage `json:"amount"`
	}

	// response for marshalling JSON responses to return to clients
	type response struct {
		From      domain.Currency `json:"from"`
		To        domain.Currency `json:"to"`
		Rate      string          `json:"rate"`
		Amount    string          `json:"amount"`
		Converted string          `json:"converted"`
	}

	return func(rw http.ResponseWriter, r *http.Request) {
		var req request
		r.Body = http.MaxBytesReader(rw, r.Body, maxRequestBytes)
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			s.error(rw, http.StatusBadRequest, "invalid json")
			return
		}

		from, err := s.Catalog.Resolve(req.From)
		if err != nil {
			s.error(rw, http.StatusBadRequest, "unknown 'from' currency")
			return
		}
		to, err := s.Catalog.Resolve(req.To)
		if err != nil {
			s.error(rw, http.StatusBadRequest, "unknown 'to' currency")
			return
		}

		amount, err := domain.ParseAmount(amountText(req.Amount))
		if err != nil {
			s.error(rw, http.StatusBadRequest, "amount must be a whole, non-negative number")
			return
		}

		ctx, cancel := context.WithTimeout(r.Context(), s.Timeout)
		defer cancel()

		result, err := s.Service.Convert(ctx, amount, from, to)
		switch {
		case errors.Is(err, domain.ErrUnavailable):
			s.error(rw, http.StatusServiceUnavailable, "exchange rate unavailable, check your connection")
			return
		case err != nil:
			s.Logger.Log("msg", "conversion failed", "from", from, "to", to, "err", err)
			s.error(rw, http.StatusInternalServerError, "failed conversion")
			return
		}

		s.respond(rw, http.StatusOK, response{
			From:      result.From,
			To:        result.To,
			Rate:      result.Rate.String(),
			Amount:    result.Amount.String(),
			Converted: exchange.Format(result.Converted),
		})
	}
}

// amountText accepts either a JSON string or a bare JSON number
func amountText(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return s
	}
	return string(raw)
}

func (s *Server) error(rw http.ResponseWriter, status int, msg string) {
	s.respond(rw, status, map[string]string{"error": msg})
}

func (s *Server) respond(rw http.ResponseWriter, status int, body interface{}) {
	rw.Header().Set("Content-Type", "application/json")
	rw.WriteHeader(status)
	if err := json.NewEncoder(rw).Encode(body); err != nil {
		s.Logger.Log("msg", "failed json encoding", "err", err)
	}
}
