package server

import (
	"net/http"

	"Yplus/internal/auth"
	"Yplus/internal/calc/batch"
	"Yplus/internal/calc/importer"
	"Yplus/internal/calc/inverse"
	"Yplus/internal/calc/report"
	"Yplus/internal/calc/yplus"
	"Yplus/internal/config"
	"Yplus/internal/history"
	"Yplus/internal/repo"

	"github.com/gorilla/mux"
	"golang.org/x/time/rate"
)

type fieldInfo struct {
	Name    string  `json:"name"`
	Label   string  `json:"label"`
	Unit    string  `json:"unit"`
	Default float64 `json:"default"`
}

func CORS(mux *mux.Router) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		mux.ServeHTTP(w, r)
	})
}

// HandleList registers every route. Account and history routes are added
// only when store is non-nil.
func HandleList(mux *mux.Router, cfg config.Config, store repo.Repository) {
	style := yplus.Style{CellHeightSymbol: cfg.HeightSymbol}

	yplusH := &yplus.Handler{Style: style}
	mux.HandleFunc("/", yplusH.Form).Methods("GET")
	mux.HandleFunc("/", yplusH.Submit).Methods("POST")
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	}).Methods("GET")

	limiter := auth.NewIPRateLimiter(rate.Limit(cfg.RateLimit), cfg.RateBurst)
	api := mux.PathPrefix("/api").Subrouter()
	api.Use(limiter.LimitMiddleware)

	inverseH := &inverse.Handler{}
	importerH := &importer.Handler{Style: style}
	api.HandleFunc("/tools/yplus/calc", yplusH.Calc).Methods("POST")
	api.HandleFunc("/tools/yplus/inverse", inverseH.Calc).Methods("POST")
	api.HandleFunc("/tools/yplus/template", importerH.Template).Methods("GET")
	api.HandleFunc("/tools/yplus/fields", func(w http.ResponseWriter, r *http.Request) {
		fields := make([]fieldInfo, 0, len(yplus.Fields))
		for _, f := range yplus.Fields {
			fields = append(fields, fieldInfo{Name: f.Name, Label: f.Label, Unit: f.Unit, Default: f.Default})
		}
		yplus.WriteJSON(w, http.StatusOK, fields)
	}).Methods("GET")

	if store == nil {
		return
	}

	authEnv := &auth.Authenv{JWTkey: []byte(cfg.TokenKey), Repo: store, SecureCookie: cfg.TLS()}
	api.HandleFunc("/login", authEnv.AuthHandler).Methods("POST")
	api.HandleFunc("/register", authEnv.RegisterHandler).Methods("POST")
	api.HandleFunc("/logout", authEnv.LogoutHandler).Methods("POST")

	secureApi := api.PathPrefix("/user").Subrouter()
	secureApi.Use(authEnv.AuthMiddleware)

	historyH := &history.Handler{Repo: store, Style: style}
	batchH := &batch.Handler{Style: style}
	reportH := &report.Handler{Style: style}

	secureApi.HandleFunc("/calculations", historyH.Save).Methods("POST")
	secureApi.HandleFunc("/calculations", historyH.List).Methods("GET")
	secureApi.HandleFunc("/calculations/{id:[0-9]+}", historyH.Get).Methods("GET")
	secureApi.HandleFunc("/tools/yplus/batch", batchH.Calc).Methods("POST")
	secureApi.HandleFunc("/tools/yplus/import", importerH.Import).Methods("POST")
	secureApi.HandleFunc("/tools/yplus/export", importerH.Export).Methods("POST")
	secureApi.HandleFunc("/tools/yplus/report", reportH.Generate).Methods("POST")
}

// New returns the complete HTTP handler.
func New(cfg config.Config, store repo.Repository) http.Handler {
	router := mux.NewRouter()
	HandleList(router, cfg, store)
	return CORS(router)
}
