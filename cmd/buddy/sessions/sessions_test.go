package sessionscmder_test

import (
	"bytes"
	"context"
	"net/http/httptest"
	"os"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/globalbuddy/buddy/api"
	sessionscmder "github.com/globalbuddy/buddy/cmd/buddy/sessions"
	"github.com/globalbuddy/buddy/pkg/logger"
	"github.com/globalbuddy/buddy/pkg/storage/inmemory"
	testutils "github.com/globalbuddy/buddy/pkg/utils/test"
	"github.com/globalbuddy/buddy/relay"
)

var _ = Describe("sessions command", func() {
	var (
		tmpDir string
		server *httptest.Server
		out    *bytes.Buffer
	)

	run := func(args ...string) error {
		cmd := sessionscmder.NewSessionsCmd()
		cmd.Flags().String("config-dir", tmpDir, "")
		cmd.SetOut(out)
		cmd.SetErr(out)
		cmd.SetArgs(append(args, "--target", server.URL))
		return cmd.Execute()
	}

	BeforeEach(func() {
		var err error
		tmpDir, err = os.MkdirTemp("", "buddy-sessions-test-*")
		Expect(err).NotTo(HaveOccurred())

		driver := inmemory.NewDriver()
		at := time.Date(2026, 3, 1, 9, 30, 0, 0, time.UTC)
		_, err = driver.Put(context.Background(), testutils.NewTestRecord("t1", "sess-1", at))
		Expect(err).NotTo(HaveOccurred())

		r, err := relay.New(relay.Config{Provider: testutils.NewMockProvider("ok")}, logger.Nop())
		Expect(err).NotTo(HaveOccurred())
		DeferCleanup(r.Close)

		srv := api.NewServer(api.Config{}, r, driver, logger.Nop())
		server = httptest.NewServer(srv.Handler())
		out = &bytes.Buffer{}
	})

	AfterEach(func() {
		server.Close()
		os.RemoveAll(tmpDir)
	})

	It("lists stored sessions", func() {
		Expect(run()).To(Succeed())
		Expect(out.String()).To(ContainSubstring("SESSION"))
		Expect(out.String()).To(ContainSubstring("sess-1"))
		Expect(out.String()).To(ContainSubstring("cafe"))
	})

	It("prints the turns of one session", func() {
		Expect(run("sess-1")).To(Succeed())
		Expect(out.String()).To(ContainSubstring("you:"))
		Expect(out.String()).To(ContainSubstring("buddy:"))
	})

	It("reports unknown sessions", func() {
		Expect(run("nope")).To(MatchError("session nope not found"))
	})
})
