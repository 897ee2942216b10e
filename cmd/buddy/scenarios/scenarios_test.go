package scenarioscmder_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	scenarioscmder "github.com/globalbuddy/buddy/cmd/buddy/scenarios"
	"github.com/globalbuddy/buddy/pkg/scenario"
)

const bankScenario = `[[scenario]]
id = "bank"
label = "은행"
emoji = "🏦"
role = "a bank teller"
situations = ["opening an account"]
`

var _ = Describe("scenarios command", func() {
	var (
		tmpDir string
		out    *bytes.Buffer
	)

	run := func(args ...string) error {
		cmd := scenarioscmder.NewScenariosCmd()
		cmd.Flags().String("config-dir", tmpDir, "")
		cmd.SetOut(out)
		cmd.SetArgs(args)
		return cmd.Execute()
	}

	decode := func() []scenario.Scenario {
		var scenarios []scenario.Scenario
		Expect(json.Unmarshal(out.Bytes(), &scenarios)).To(Succeed())
		return scenarios
	}

	BeforeEach(func() {
		var err error
		tmpDir, err = os.MkdirTemp("", "buddy-scenarios-test-*")
		Expect(err).NotTo(HaveOccurred())
		out = &bytes.Buffer{}
	})

	AfterEach(func() {
		os.RemoveAll(tmpDir)
	})

	It("lists the built-in scenarios", func() {
		Expect(run("--json")).To(Succeed())
		Expect(decode()).To(HaveLen(scenario.Default().Len()))
	})

	It("appends custom scenarios from a file", func() {
		path := filepath.Join(tmpDir, "scenarios.toml")
		Expect(os.WriteFile(path, []byte(bankScenario), 0o600)).To(Succeed())

		Expect(run("--json", "--scenarios", path)).To(Succeed())
		scenarios := decode()
		Expect(scenarios).To(HaveLen(scenario.Default().Len() + 1))
		Expect(scenarios[len(scenarios)-1].ID).To(Equal("bank"))
	})

	It("renders a table", func() {
		Expect(run()).To(Succeed())
		Expect(out.String()).To(ContainSubstring("restaurant"))
	})

	It("fetches scenarios from the server with --remote", func() {
		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.URL.Path != "/api/scenarios" {
				http.NotFound(w, r)
				return
			}
			_, _ = w.Write([]byte(`[{"id":"remote-only","label":"Remote"}]`))
		}))
		defer server.Close()

		Expect(run("--remote", "--json", "--target", server.URL)).To(Succeed())
		scenarios := decode()
		Expect(scenarios).To(HaveLen(1))
		Expect(scenarios[0].ID).To(Equal("remote-only"))
	})
})
