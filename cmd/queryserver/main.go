// Command queryserver exposes the query evaluator over HTTP, backed by
// fasthttp, alongside a static file server and a Prometheus metrics
// endpoint.
package main

import (
	"net/http"
	"os"
	"strconv"
	"strings"
	"time"

	jsoniter "github.com/json-iterator/go"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/valyala/fasthttp"
	"github.com/valyala/fasthttp/fasthttpadaptor"
	"k8s.io/klog/v2"

	"github.com/salvatore-campagna/lexsearch/metrics"
	"github.com/salvatore-campagna/lexsearch/queryengine"
)

// searchResult is one JSON array element returned by GET /.
type searchResult struct {
	Ranking int    `json:"ranking"`
	Name    string `json:"name"`
	Weight  int    `json:"weight"`
}

func main() {
	klog.InitFlags(nil)

	addr := envOrDefault("LISTEN_ADDR", ":8080")
	staticDir := envOrDefault("STATIC_FILES_DIR", "static")
	queryDir := envOrDefault("QUERY_FILES_DIR", "query_files")

	metricsHandler := fasthttpadaptor.NewFastHTTPHandler(promhttp.Handler())
	fileHandler := fasthttp.FSHandler(staticDir, len(strings.Split(staticDir, "/"))-1)

	handler := func(ctx *fasthttp.RequestCtx) {
		started := time.Now()
		defer func() {
			klog.Infof("%s %s took %s", ctx.Method(), ctx.Path(), time.Since(started))
		}()

		path := string(ctx.Path())
		switch {
		case path == "/metrics":
			metricsHandler(ctx)
		case strings.HasPrefix(path, "/files/"):
			ctx.Request.URI().SetPath(strings.TrimPrefix(path, "/files"))
			fileHandler(ctx)
		case path == "/":
			handleQuery(ctx, queryDir)
		default:
			ctx.SetStatusCode(http.StatusNotFound)
		}
	}

	klog.Infof("queryserver listening on %s (static=%s, query=%s)", addr, staticDir, queryDir)
	if err := fasthttp.ListenAndServe(addr, handler); err != nil {
		klog.Fatalf("queryserver: %v", err)
	}
}

func handleQuery(ctx *fasthttp.RequestCtx, queryDir string) {
	start := time.Now()
	defer func() {
		metrics.QueryDuration.Observe(time.Since(start).Seconds())
	}()

	query := string(ctx.QueryArgs().Peek("query"))
	numResults := queryengine.DefaultNumResults
	if raw := string(ctx.QueryArgs().Peek("num_results")); raw != "" {
		if n, err := strconv.Atoi(raw); err == nil && n > 0 {
			numResults = n
		}
	}

	results, err := queryengine.Evaluate(queryDir, query, numResults)
	if err != nil {
		klog.Errorf("query %q failed: %v", query, err)
		replyJSON(ctx, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}

	out := make([]searchResult, len(results))
	for i, r := range results {
		out[i] = searchResult{Ranking: i + 1, Name: r.Name, Weight: r.Weight}
	}
	replyJSON(ctx, http.StatusOK, out)
}

func replyJSON(ctx *fasthttp.RequestCtx, code int, v interface{}) {
	ctx.SetContentType("application/json")
	ctx.SetStatusCode(code)
	if err := jsoniter.ConfigCompatibleWithStandardLibrary.NewEncoder(ctx).Encode(v); err != nil {
		klog.Errorf("failed to marshal response: %v", err)
	}
}

func envOrDefault(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}
