package helpers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/MichalMitros/storefront-importer/internal/platform/models"
	pgmodels "github.com/MichalMitros/storefront-importer/internal/platform/storage/gen/postgres/public/model"
	"github.com/MichalMitros/storefront-importer/internal/platform/storage/storagetesting"
	"github.com/go-jet/jet/v2/qrm"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/samber/lo"
	"github.com/stretchr/testify/require"
)

const (
	contentType = "Content-Type"

	// GraphQLPath is path of fake admin API endpoint.
	GraphQLPath = "/admin/api/graphql.json"

	waitTimeout = 30 * time.Second
)

// WaitForJobsToBeFinished is blocking helper function, returns shop's jobs after none of them is pending.
func WaitForJobsToBeFinished(t *testing.T, queryable qrm.Queryable, shop string, n int) []pgmodels.ImportJob {
	t.Helper()

	deadline := time.After(waitTimeout)
	for {
		select {
		case <-deadline:
			require.FailNow(t, "import jobs weren't finished in time", shop)
		case <-time.After(250 * time.Millisecond):
		}

		jobs := storagetesting.GetJobs(t, queryable, shop)
		pending := lo.CountBy(jobs, func(j pgmodels.ImportJob) bool {
			return j.Status == string(models.JobStatusPending)
		})
		if len(jobs) == n && pending == 0 {
			return jobs
		}
	}
}

// WaitForSubscription is blocking helper function, returns shop's subscription after it satisfies cond.
// Nil subscription is passed to cond when shop has none.
func WaitForSubscription(
	t *testing.T,
	queryable qrm.Queryable,
	shop string,
	cond func(sub *pgmodels.ShopSubscription) bool,
) *pgmodels.ShopSubscription {
	t.Helper()

	deadline := time.After(waitTimeout)
	for {
		select {
		case <-deadline:
			require.FailNow(t, "subscription wasn't changed in time", shop)
		case <-time.After(250 * time.Millisecond):
		}

		sub := storagetesting.GetSubscription(t, queryable, shop)
		if cond(sub) {
			return sub
		}
	}
}

// Remote is fake remote side of import: source storefront, its image CDN, destination admin API
// and staged upload target served by single http server.
type Remote struct {
	Server *httptest.Server

	mu       sync.Mutex
	products []map[string]any
	created  []string
	uploads  int
}

// NewRemote starts fake remote serving n storefront products, each with single image.
func NewRemote(t *testing.T, n int) *Remote {
	t.Helper()

	remote := &Remote{}
	mux := http.NewServeMux()
	mux.HandleFunc("GET /products.json", remote.catalog)
	mux.HandleFunc("GET /images/", func(wrt http.ResponseWriter, _ *http.Request) {
		wrt.Header().Add(contentType, "image/png")
		_, _ = wrt.Write(pngImage(t, 64, 48))
	})
	mux.HandleFunc("PUT /upload", func(wrt http.ResponseWriter, req *http.Request) {
		_, _ = io.Copy(io.Discard, req.Body)
		remote.mu.Lock()
		remote.uploads++
		remote.mu.Unlock()
		wrt.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("POST "+GraphQLPath, remote.graphQL(t))

	remote.Server = httptest.NewServer(mux)
	t.Cleanup(remote.Server.Close)

	for ix := range n {
		id := ix + 1
		remote.products = append(remote.products, map[string]any{
			"id":        id,
			"title":     fmt.Sprintf("Product %d", id),
			"body_html": "<p>description</p>",
			"vendor":    "Acme",
			"handle":    fmt.Sprintf("product-%d", id),
			"images":    []map[string]any{{"src": fmt.Sprintf("%s/images/%d.png", remote.Server.URL, id)}},
			"options":   []map[string]any{{"name": "Size", "values": []string{"S", "M"}}},
			"variants": []map[string]any{
				{"id": id*10 + 1, "title": "S", "price": "10.00", "sku": "", "inventory_quantity": 3, "option1": "S"},
				{"id": id*10 + 2, "title": "M", "price": "12.00", "sku": "", "inventory_quantity": 1, "option1": "M"},
			},
		})
	}

	return remote
}

// GraphQLURL returns URL of fake admin API.
func (r *Remote) GraphQLURL() string {
	return r.Server.URL + GraphQLPath
}

// Created returns titles of products created in destination shop.
func (r *Remote) Created() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string{}, r.created...)
}

// Uploads returns number of uploaded images.
func (r *Remote) Uploads() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.uploads
}

func (r *Remote) catalog(wrt http.ResponseWriter, req *http.Request) {
	products := r.products
	if page := req.URL.Query().Get("page"); page != "" && page != "1" {
		products = []map[string]any{}
	}

	wrt.Header().Add(contentType, "application/json")
	_ = json.NewEncoder(wrt).Encode(map[string]any{"products": products})
}

func (r *Remote) graphQL(t *testing.T) http.HandlerFunc {
	return func(wrt http.ResponseWriter, req *http.Request) {
		var gqlReq struct {
			Query     string `json:"query"`
			Variables struct {
				Product struct {
					Title string `json:"title"`
				} `json:"product"`
			} `json:"variables"`
		}
		if err := json.NewDecoder(req.Body).Decode(&gqlReq); err != nil {
			wrt.WriteHeader(http.StatusBadRequest)
			return
		}

		wrt.Header().Add(contentType, "application/json")

		switch {
		case strings.Contains(gqlReq.Query, "locations("):
			_, _ = wrt.Write([]byte(`{"data":{"locations":{"edges":[{"node":{"id":"gid://shopify/Location/1"}}]}}}`))
		case strings.Contains(gqlReq.Query, "stagedUploadsCreate"):
			_, _ = fmt.Fprintf(wrt, `{"data":{"stagedUploadsCreate":{
				"stagedTargets":[{"url":%q,"resourceUrl":%q,"parameters":[]}],
				"userErrors":[]
			}}}`, r.Server.URL+"/upload", r.Server.URL+"/staged/image.jpg")
		case strings.Contains(gqlReq.Query, "productVariantsBulkCreate"):
			_, _ = wrt.Write([]byte(`{"data":{"productVariantsBulkCreate":{"productVariants":[],"userErrors":[]}}}`))
		case strings.Contains(gqlReq.Query, "productCreate"):
			r.mu.Lock()
			r.created = append(r.created, gqlReq.Variables.Product.Title)
			id := len(r.created)
			r.mu.Unlock()
			_, _ = fmt.Fprintf(wrt,
				`{"data":{"productCreate":{"product":{"id":"gid://shopify/Product/%d","title":%q},"userErrors":[]}}}`,
				id, gqlReq.Variables.Product.Title)
		default:
			t.Errorf("unexpected query: %s", gqlReq.Query)
			wrt.WriteHeader(http.StatusBadRequest)
		}
	}
}

// LogBuffer is logs writer safe for concurrent use.
type LogBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

// Write appends p to buffer.
func (b *LogBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

// String returns all written logs.
func (b *LogBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

// DeleteRMQQueues is helper function for deleting RMQ queues after test is finished.
func DeleteRMQQueues(t *testing.T, channel *amqp.Channel, queues ...string) {
	t.Helper()

	t.Cleanup(func() {
		for _, queue := range queues {
			if _, err := channel.QueueDelete(queue, false, false, false); err != nil {
				require.FailNow(t, "can't delete queue", queue, err)
			}
		}
	})
}

func pngImage(t *testing.T, width, height int) []byte {
	t.Helper()

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	for x := range width {
		img.Set(x, x%height, color.RGBA{R: 10, G: 120, B: 200, A: 255})
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		require.FailNow(t, "can't encode png", err)
	}

	return buf.Bytes()
}
