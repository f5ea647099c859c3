package client_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"

	"github.com/google/uuid"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	api "github.com/talentflow/talentflow/api/v1alpha1"
	"github.com/talentflow/talentflow/internal/client"
	"github.com/talentflow/talentflow/internal/queue"
	"github.com/talentflow/talentflow/pkg/requestid"
)

var _ = Describe("endpoint client", func() {
	var (
		ctx    context.Context
		server *httptest.Server
	)

	BeforeEach(func() {
		ctx = context.Background()
	})

	AfterEach(func() {
		if server != nil {
			server.Close()
			server = nil
		}
	})

	Context("successful requests", func() {
		It("sends headers and decodes the envelope", func() {
			server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				Expect(r.Method).To(Equal(http.MethodPost))
				Expect(r.URL.Path).To(Equal("/jobs"))
				Expect(r.URL.Query().Get("x")).To(Equal("1"))
				Expect(r.Header.Get("Content-Type")).To(Equal("application/json"))
				Expect(r.Header.Get(api.ActorHeader)).To(Equal("maria"))
				Expect(r.Header.Get(requestid.Header)).To(Equal("req-1"))

				body, err := io.ReadAll(r.Body)
				Expect(err).To(BeNil())
				Expect(string(body)).To(MatchJSON(`{"title":"Engineer"}`))

				w.Header().Set("Content-Type", "application/json; charset=utf-8")
				w.Header().Set(requestid.Header, "req-1")
				w.WriteHeader(http.StatusCreated)
				_, _ = w.Write([]byte(`{"data":{"title":"Engineer"},"pagination":{"page":1,"pageSize":10,"total":1,"totalPages":1}}`))
			}))

			c := client.NewClient(server.URL, server.Client())
			resp, err := c.Do(requestid.ToContext(ctx, "req-1"), client.Request{
				Method: http.MethodPost,
				Path:   "/jobs?x=1",
				Body:   map[string]string{"title": "Engineer"},
				Actor:  "maria",
			})
			Expect(err).To(BeNil())
			Expect(resp.StatusCode).To(Equal(http.StatusCreated))
			Expect(resp.Source).To(Equal(client.SourceEndpoint))
			Expect(resp.RequestID).To(Equal("req-1"))
			Expect(resp.Pagination).NotTo(BeNil())
			Expect(resp.Pagination.Total).To(Equal(int64(1)))

			var job api.Job
			Expect(resp.Decode(&job)).To(Succeed())
			Expect(job.Title).To(Equal("Engineer"))
		})

		It("generates a request id when the context has none", func() {
			server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				Expect(r.Header.Get(requestid.Header)).NotTo(BeEmpty())
				Expect(r.Header.Get("Content-Type")).To(BeEmpty())
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(`{"data":[]}`))
			}))

			c := client.NewClient(server.URL+"/", server.Client())
			resp, err := c.Do(ctx, client.Request{Method: http.MethodGet, Path: "/jobs"})
			Expect(err).To(BeNil())
			Expect(string(resp.Data)).To(Equal("[]"))
		})
	})

	Context("failures", func() {
		It("returns the endpoint error as ErrStatus", func() {
			server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusNotFound)
				_, _ = w.Write([]byte(`{"message":"job not found","requestId":"abc"}`))
			}))

			c := client.NewClient(server.URL, server.Client())
			_, err := c.Do(ctx, client.Request{Method: http.MethodGet, Path: "/jobs/x"})
			Expect(err).NotTo(BeNil())

			var statusErr *client.ErrStatus
			Expect(errors.As(err, &statusErr)).To(BeTrue())
			Expect(statusErr.Message).To(Equal("job not found"))
			Expect(statusErr.RequestID).To(Equal("abc"))
			Expect(client.IsNotFound(err)).To(BeTrue())
			Expect(client.IsValidation(err)).To(BeFalse())
			Expect(client.IsTransport(err)).To(BeFalse())
		})

		It("treats a non JSON answer as malformed", func() {
			server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.Header().Set("Content-Type", "text/html")
				_, _ = w.Write([]byte("<html></html>"))
			}))

			c := client.NewClient(server.URL, server.Client())
			_, err := c.Do(ctx, client.Request{Method: http.MethodGet, Path: "/jobs"})

			var malformed *client.ErrMalformedResponse
			Expect(errors.As(err, &malformed)).To(BeTrue())
			Expect(malformed.ContentType).To(Equal("text/html"))
			Expect(client.IsTransport(err)).To(BeTrue())
		})

		It("reports an unreachable server as a transport failure", func() {
			server = httptest.NewServer(http.NotFoundHandler())
			url := server.URL
			server.Close()
			server = nil

			c := client.NewClient(url, nil)
			_, err := c.Do(ctx, client.Request{Method: http.MethodGet, Path: "/jobs"})
			Expect(err).NotTo(BeNil())
			Expect(client.IsTransport(err)).To(BeTrue())
		})

		It("rejects a body that cannot be encoded", func() {
			c := client.NewClient("", nil)
			_, err := c.Do(ctx, client.Request{Method: http.MethodPost, Path: "/jobs", Body: make(chan int)})
			Expect(err).To(MatchError(ContainSubstring("failed to marshal request")))
		})
	})

	Context("replay", func() {
		It("sends the stored payload with the original request id", func() {
			received := make(chan *http.Request, 1)
			server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				body, _ := io.ReadAll(r.Body)
				Expect(string(body)).To(Equal(`{"status":"archived"}`))
				received <- r
				w.Header().Set("Content-Type", "application/json")
				_, _ = w.Write([]byte(`{"data":{}}`))
			}))

			c := client.NewClient(server.URL, server.Client())
			err := c.Send(ctx, queue.Entry{
				ID:        uuid.New(),
				Method:    http.MethodPatch,
				Path:      "/jobs/1",
				Payload:   json.RawMessage(`{"status":"archived"}`),
				Actor:     "replayer",
				RequestID: "original",
			})
			Expect(err).To(BeNil())

			var r *http.Request
			Eventually(received).Should(Receive(&r))
			Expect(r.Method).To(Equal(http.MethodPatch))
			Expect(r.Header.Get(requestid.Header)).To(Equal("original"))
			Expect(r.Header.Get(api.ActorHeader)).To(Equal("replayer"))
		})
	})
})

var _ = Describe("IsTransport", func() {
	DescribeTable("classification",
		func(err error, expected bool) {
			Expect(client.IsTransport(err)).To(Equal(expected))
		},
		Entry("nil", nil, false),
		Entry("plain error", errors.New("boom"), false),
		Entry("status", &client.ErrStatus{Code: 500}, false),
		Entry("wrapped malformed", fmt.Errorf("call: %w", &client.ErrMalformedResponse{StatusCode: 200}), true),
		Entry("malformed 502", &client.ErrMalformedResponse{StatusCode: 502}, true),
		Entry("malformed 404", &client.ErrMalformedResponse{StatusCode: 404}, false),
		Entry("malformed 405", &client.ErrMalformedResponse{StatusCode: 405}, false),
		Entry("canceled", fmt.Errorf("call: %w", context.Canceled), false),
	)
})
