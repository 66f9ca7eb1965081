package console

import (
	"context"
	"encoding/json"
	"errors"
	"net"
	"net/http"
	"strings"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"github.com/zeebo/errs"
	"golang.org/x/sync/errgroup"

	"jdbcurl/console/common"
	"jdbcurl/internal/batch"
	"jdbcurl/internal/logger"
	"jdbcurl/pkg/jdbc"
	"jdbcurl/pkg/rate"
)

var (
	// Error is an error class that indicates internal http server error.
	Error = errs.Class("console web server error")
)

// maxBodySize limits body of batch parse request.
const maxBodySize = 1 << 20

// Config contains configuration for console web server.
type Config struct {
	Address string `env:"ADDRESS" envDefault:"127.0.0.1:8088"`
	Cors    struct {
		AllowedForAllOrigins bool     `env:"ALLOWED_FOR_ALL_ORIGINS" envDefault:"false"`
		AllowedOrigins       []string `env:"ALLOWED_ORIGINS" envSeparator:" " envDefault:""`
	} `envPrefix:"CORS_"`
	RateLimiter rate.Config  `envPrefix:"RATE_LIMITER_"`
	Batch       batch.Config `envPrefix:"BATCH_"`
}

// Server represents console web server.
//
// architecture: Endpoint.
type Server struct {
	log    logger.Logger
	config Config

	listener    net.Listener
	server      http.Server
	rateLimiter *rate.Limiter
}

// NewServer is a constructor for console web server.
func NewServer(
	config Config,
	log logger.Logger,
	listener net.Listener,
	rateLimiter *rate.Limiter,
) *Server {
	server := &Server{
		log:         log,
		config:      config,
		listener:    listener,
		rateLimiter: rateLimiter,
	}

	router := mux.NewRouter()
	router.Use(server.rateLimit)

	apiRouter := router.PathPrefix("/api/v1").Subrouter()
	apiRouter.Use(server.jsonResponse)

	apiRouter.HandleFunc("/kinds", server.listKinds).Methods(http.MethodGet)
	apiRouter.HandleFunc("/parse", server.parse).Methods(http.MethodGet)
	apiRouter.HandleFunc("/parse", server.parseBatch).Methods(http.MethodPost)

	if !config.Cors.AllowedForAllOrigins {
		c := cors.New(cors.Options{
			AllowedOrigins:   config.Cors.AllowedOrigins,
			AllowCredentials: true,
			AllowedMethods:   []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		})

		server.server = http.Server{
			Handler: c.Handler(router),
		}

		return server
	}

	router.Use(func(handler http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			server.appHandler(w, r)
			handler.ServeHTTP(w, r)
		})
	})

	server.server = http.Server{
		Handler: cors.AllowAll().Handler(router),
	}

	return server
}

// Handler returns root http handler of the server.
func (server *Server) Handler() http.Handler {
	return server.server.Handler
}

// KindResponse describes supported database kind.
type KindResponse struct {
	Name        string `json:"name"`
	DefaultPort int    `json:"defaultPort"`
}

// BatchRequest is a body of batch parse request.
type BatchRequest struct {
	URLs []string `json:"urls"`
}

// BatchResult is an outcome of parsing single url of batch.
type BatchResult struct {
	URL        string                  `json:"url"`
	Descriptor *jdbc.Descriptor        `json:"descriptor,omitempty"`
	Error      *common.ErrResponseCode `json:"error,omitempty"`
}

// BatchResponse is a body of batch parse response.
type BatchResponse struct {
	Results []BatchResult `json:"results"`
	Failed  int           `json:"failed"`
}

// listKinds is an endpoint that returns supported kinds with their default ports.
func (server *Server) listKinds(w http.ResponseWriter, r *http.Request) {
	kinds := jdbc.Kinds()
	response := make([]KindResponse, 0, len(kinds))
	for _, kind := range kinds {
		response = append(response, KindResponse{Name: kind.String(), DefaultPort: kind.DefaultPort()})
	}

	if err := json.NewEncoder(w).Encode(response); err != nil {
		server.log.Error("could not encode kinds", Error.Wrap(err))
	}
}

// parse is an endpoint that parses url given in query.
func (server *Server) parse(w http.ResponseWriter, r *http.Request) {
	url := r.URL.Query().Get("url")
	if url == "" {
		common.NewErrResponse(http.StatusBadRequest, errs.New("url is required")).Serve(server.log, Error, w)
		return
	}

	descriptor, err := jdbc.Parse(url)
	if err != nil {
		server.log.Debug("could not parse url: " + err.Error())
		parseErrResponse(err).Serve(server.log, Error, w)
		return
	}

	if err := json.NewEncoder(w).Encode(descriptor); err != nil {
		server.log.Error("could not encode descriptor", Error.Wrap(err))
	}
}

// parseBatch is an endpoint that parses list of urls, failing urls are reported per url.
func (server *Server) parseBatch(w http.ResponseWriter, r *http.Request) {
	var request BatchRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize)).Decode(&request); err != nil {
		common.NewErrResponse(http.StatusBadRequest, Error.Wrap(err)).Serve(server.log, Error, w)
		return
	}

	results, err := batch.Parse(r.Context(), request.URLs, server.config.Batch)
	if err != nil {
		common.NewErrResponse(http.StatusServiceUnavailable, Error.Wrap(err)).Serve(server.log, Error, w)
		return
	}

	response := BatchResponse{
		Results: make([]BatchResult, 0, len(results)),
		Failed:  batch.Failed(results),
	}
	for _, result := range results {
		item := BatchResult{URL: result.URL, Descriptor: result.Descriptor}
		if result.Err != nil {
			code := parseErrResponse(result.Err).ToErrResponseCode()
			item.Error = &code
		}
		response.Results = append(response.Results, item)
	}

	if err := json.NewEncoder(w).Encode(response); err != nil {
		server.log.Error("could not encode batch response", Error.Wrap(err))
	}
}

// parseErrResponse maps parse error classes to machine readable reasons.
func parseErrResponse(err error) *common.ErrResponse {
	response := common.NewErrResponse(http.StatusUnprocessableEntity, err)

	switch {
	case jdbc.ErrMalformedURL.Has(err):
		return response.WithReason("malformed_url")
	case jdbc.ErrUnsupportedKind.Has(err):
		return response.WithReason("unsupported_kind")
	case jdbc.ErrInvalidPort.Has(err):
		return response.WithReason("invalid_port")
	case jdbc.ErrInvalidName.Has(err):
		return response.WithReason("invalid_name")
	default:
		return common.NewErrResponse(http.StatusInternalServerError, err)
	}
}

// Run starts the server that hosts api endpoints.
func (server *Server) Run(ctx context.Context) (err error) {
	var group errgroup.Group

	ctx, cancel := context.WithCancel(ctx)

	group.Go(func() error {
		<-ctx.Done()
		return Error.Wrap(server.server.Shutdown(context.Background()))
	})

	group.Go(func() error {
		server.rateLimiter.Run(ctx)
		return nil
	})

	group.Go(func() error {
		defer cancel()

		err := server.server.Serve(server.listener)
		isCancelled := errs.IsFunc(err, func(err error) bool { return errors.Is(err, context.Canceled) })
		if isCancelled || errors.Is(err, http.ErrServerClosed) {
			err = nil
		}

		return Error.Wrap(err)
	})

	return Error.Wrap(group.Wait())
}

// Close closes server and underlying listener.
func (server *Server) Close() error {
	return Error.Wrap(server.server.Close())
}

// appHandler sets headers for requests from any origin.
func (server *Server) appHandler(w http.ResponseWriter, _ *http.Request) {
	header := w.Header()
	allowedHeaders := "Accept, Origin, Content-Type, X-Requested-With, Content-Length, Accept-Encoding"
	header.Set("X-Content-Type-Options", "nosniff")
	header.Set("Referrer-Policy", "same-origin")
	header.Set("Access-Control-Allow-Origin", "*")
	header.Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
	header.Set("Access-Control-Allow-Headers", allowedHeaders)
}

// jsonResponse sets a response' "Content-Type" value as "application/json".
func (server *Server) jsonResponse(handler http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		handler.ServeHTTP(w, r.Clone(r.Context()))
	})
}

// rateLimit is a middleware that prevents from multiple requests from single ip address.
func (server *Server) rateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ip, err := server.getIP(r)
		if err != nil {
			http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
			return
		}

		if !server.rateLimiter.IsAllowed(ip) {
			server.log.Debug("rate limit exceeded, ip:" + ip)
			http.Error(w, http.StatusText(http.StatusTooManyRequests), http.StatusTooManyRequests)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (server *Server) getIP(r *http.Request) (ip string, err error) {
	ips := r.Header.Get("X-Forwarded-For")
	splitIps := strings.Split(ips, ",")

	if len(splitIps) > 0 {
		// last IP in list since ELB prepends other user defined IPs, meaning the last one is the actual client IP.
		netIP := net.ParseIP(strings.TrimSpace(splitIps[len(splitIps)-1]))
		if netIP != nil {
			return netIP.String(), nil
		}
	}

	ip, _, err = net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		return "", err
	}

	netIP := net.ParseIP(ip)
	if netIP != nil {
		ip := netIP.String()
		if ip == "::1" {
			return "127.0.0.1", nil
		}
		return ip, nil
	}

	return "", errors.New("IP not found")
}
