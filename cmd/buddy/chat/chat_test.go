package chatcmder

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"sync"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/globalbuddy/buddy/pkg/chat"
	"github.com/globalbuddy/buddy/pkg/dotdir"
)

const tableReply = "🇰🇷 → 🇺🇸 \"A table for two, please\"\nRight this way!\n🇰🇷 \"이쪽으로 오세요!\"\n💬 더 자연스럽게:\n① \"Could we get a table for two?\""

// fakeServer answers /api/scenarios and /api/chat like "buddy serve".
type fakeServer struct {
	mu       sync.Mutex
	requests []chat.Request
	replies  []string
}

func (f *fakeServer) handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /api/scenarios", func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`[]`))
	})
	mux.HandleFunc("POST /api/chat", func(w http.ResponseWriter, r *http.Request) {
		var req chat.Request
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			w.WriteHeader(http.StatusBadRequest)
			return
		}

		f.mu.Lock()
		f.requests = append(f.requests, req)
		text := "Hello!"
		if len(f.replies) > 0 {
			text, f.replies = f.replies[0], f.replies[1:]
		}
		f.mu.Unlock()

		_ = json.NewEncoder(w).Encode(map[string]string{"reply": text})
	})
	return mux
}

func (f *fakeServer) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.requests)
}

var _ = Describe("chat command", func() {
	var (
		fake   *fakeServer
		server *httptest.Server
		tmpDir string
		out    *bytes.Buffer
	)

	newCommander := func(input string) *chatCommander {
		return &chatCommander{
			target:     server.URL,
			scenarioID: "restaurant",
			configDir:  tmpDir,
			in:         strings.NewReader(input),
			out:        out,
		}
	}

	BeforeEach(func() {
		var err error
		tmpDir, err = os.MkdirTemp("", "buddy-chat-test-*")
		Expect(err).NotTo(HaveOccurred())

		fake = &fakeServer{}
		server = httptest.NewServer(fake.handler())
		out = &bytes.Buffer{}
	})

	AfterEach(func() {
		server.Close()
		os.RemoveAll(tmpDir)
	})

	It("opens the scenario, answers a message and saves the session", func() {
		fake.replies = []string{"Welcome! How many?", tableReply}

		cmder := newCommander("두 명이요\n/exit\n")
		Expect(cmder.run(context.Background())).To(Succeed())

		Expect(fake.count()).To(Equal(2))
		Expect(fake.requests[0].ScenarioID).To(Equal("restaurant"))
		Expect(fake.requests[0].Messages[0].Hidden).To(BeTrue())
		Expect(fake.requests[1].Messages).To(HaveLen(3))

		Expect(out.String()).To(ContainSubstring("Welcome! How many?"))
		Expect(out.String()).To(ContainSubstring("A table for two, please"))
		Expect(out.String()).To(ContainSubstring(`① "Could we get a table for two?"`))
		Expect(out.String()).To(ContainSubstring("/t 3"))
		Expect(out.String()).NotTo(ContainSubstring("이쪽으로 오세요"))

		state, err := dotdir.NewManager().LoadSessionState(tmpDir)
		Expect(err).NotTo(HaveOccurred())
		Expect(state.ScenarioID).To(Equal("restaurant"))
		Expect(state.Messages).To(HaveLen(4))
		Expect(state.Messages[0].Hidden).To(BeTrue())
		Expect(state.Messages[3].Sender).To(Equal("ai"))
	})

	It("shows the reply translation with /t", func() {
		fake.replies = []string{"Welcome!", tableReply}

		cmder := newCommander("두 명이요\n/t\n")
		Expect(cmder.run(context.Background())).To(Succeed())
		Expect(out.String()).To(ContainSubstring("이쪽으로 오세요!"))
	})

	It("reports bubbles that cannot be toggled", func() {
		cmder := newCommander("/t 9\n/t 1\n/nope\n")
		Expect(cmder.run(context.Background())).To(Succeed())
		Expect(out.String()).To(ContainSubstring(`no bubble "9"`))
		Expect(out.String()).To(ContainSubstring("bubble 1 has no translation"))
		Expect(out.String()).To(ContainSubstring("unknown command /nope"))
	})

	It("resumes the saved session without a new opening", func() {
		first := newCommander("hi\n")
		Expect(first.run(context.Background())).To(Succeed())
		Expect(fake.count()).To(Equal(2))
		saved, err := dotdir.NewManager().LoadSessionState(tmpDir)
		Expect(err).NotTo(HaveOccurred())

		second := newCommander("one more\n")
		second.scenarioID = "hotel"
		second.resume = true
		Expect(second.run(context.Background())).To(Succeed())

		Expect(fake.count()).To(Equal(3))
		last := fake.requests[2]
		Expect(last.SessionID).To(Equal(saved.SessionID))
		Expect(last.ScenarioID).To(Equal("restaurant"))
		Expect(last.Messages).To(HaveLen(5))
	})

	It("starts over with /reset", func() {
		cmder := newCommander("hi\n/reset\n")
		Expect(cmder.run(context.Background())).To(Succeed())
		Expect(out.String()).To(ContainSubstring("Conversation cleared"))
		Expect(fake.count()).To(Equal(3))
	})

	It("only spins on terminals", func() {
		Expect(isTerminal(out)).To(BeFalse())

		f, err := os.CreateTemp(tmpDir, "out-*")
		Expect(err).NotTo(HaveOccurred())
		defer f.Close()
		Expect(isTerminal(f)).To(BeFalse())
	})

	It("fails when the server is unreachable", func() {
		cmder := newCommander("")
		cmder.target = "http://127.0.0.1:1"
		Expect(cmder.run(context.Background())).To(MatchError(ContainSubstring("connecting to buddy server")))
	})
})
