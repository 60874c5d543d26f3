package core

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	m "github.com/Ehomey/smartrisk-lite/models"
)

const DefaultAddr = ":8080"

func GetHttpServer(sc ServiceContext) *http.Server {
	router := chi.NewRouter()

	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:3000"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Origin", "Content-Type", "Accept", "Authorization"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           int((12 * time.Hour).Seconds()),
	}))
	router.Use(securityHeaders)

	router.Get("/api/ping", ping)
	router.Get("/api/popular_assets", popularAssets)
	router.Get("/api/search_assets", func(w http.ResponseWriter, r *http.Request) { searchAssets(w, r, sc) })
	router.Post("/api/analyze_portfolio", func(w http.ResponseWriter, r *http.Request) { analyzePortfolio(w, r, sc) })

	addr := os.Getenv("ADDR")
	if addr == "" {
		addr = DefaultAddr
	}

	server := &http.Server{
		Addr:           addr,
		Handler:        router,
		ReadTimeout:    10 * time.Second,
		WriteTimeout:   60 * time.Second, // large path counts take a while
		MaxHeaderBytes: 1 << 20,
	}

	return server
}

func securityHeaders(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Content-Type-Options", "nosniff")
		w.Header().Set("X-Frame-Options", "DENY")
		w.Header().Set("Content-Security-Policy", "default-src 'self'")
		next.ServeHTTP(w, r)
	})
}

func ping(w http.ResponseWriter, r *http.Request) {
	writeJson(w, http.StatusOK, map[string]string{"message": "pong"})
}

func popularAssets(w http.ResponseWriter, r *http.Request) {
	page := queryInt(r, "page", 1)
	limit := queryInt(r, "limit", 60)

	res, err := GetPopularAssets(r.URL.Query().Get("asset_class"), r.URL.Query().Get("sector"), page, limit)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	writeJson(w, http.StatusOK, res)
}

func searchAssets(w http.ResponseWriter, r *http.Request, sc ServiceContext) {
	ticker := strings.ToUpper(strings.TrimSpace(r.URL.Query().Get("query")))
	if ticker == "" {
		writeError(w, http.StatusBadRequest, "query parameter is required")
		return
	}

	if !ValidTicker(ticker) {
		writeError(w, http.StatusBadRequest, "invalid ticker format, use 1-10 uppercase letters, numbers, dots, or hyphens")
		return
	}

	matches, err := sc.AlphaVantageClient.SearchSymbol(ticker)
	if err != nil {
		log.Printf("symbol search error for %q: %v", ticker, err)
		writeError(w, http.StatusNotFound, "ticker '"+ticker+"' not found")
		return
	}

	if len(matches) == 0 {
		writeError(w, http.StatusNotFound, "no data found for "+ticker)
		return
	}

	writeJson(w, http.StatusOK, matches[0])
}

func analyzePortfolio(w http.ResponseWriter, r *http.Request, sc ServiceContext) {
	var req m.PortfolioRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	res, err := sc.AnalyzePortfolio(&req)
	if err != nil {
		var reqErr *RequestError
		if errors.As(err, &reqErr) {
			writeError(w, http.StatusBadRequest, reqErr.Message)
			return
		}
		log.Printf("portfolio analysis failed: %v", err)
		writeError(w, http.StatusInternalServerError, "internal error during analysis")
		return
	}

	writeJson(w, http.StatusOK, res)
}

func queryInt(r *http.Request, key string, fallback int) int {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}

	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}

func writeJson(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("error encoding response body: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJson(w, status, map[string]string{"error": message})
}
