package scenario_test

import (
	"context"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/globalbuddy/buddy/pkg/logger"
	"github.com/globalbuddy/buddy/pkg/scenario"
)

const customScenarios = `
[[scenario]]
id = "bank"
label = "은행"
emoji = "🏦"
description = "계좌 개설부터 송금까지"
role = "a bank teller"
situations = ["A patient teller helping open a new account", "A busy teller at the end of the month"]
`

var _ = Describe("Catalog", func() {
	var catalog *scenario.Catalog

	BeforeEach(func() {
		catalog = scenario.Default()
	})

	It("lists the built-in scenarios in order", func() {
		ids := []string{}
		for _, s := range catalog.All() {
			ids = append(ids, s.ID)
		}
		Expect(ids).To(Equal([]string{
			"free", "restaurant", "airport", "convenience", "hotel",
			"cafe", "taxi", "directions", "shopping", "hospital",
		}))
	})

	It("looks scenarios up by id", func() {
		s, ok := catalog.Get("cafe")
		Expect(ok).To(BeTrue())
		Expect(s.Label).To(Equal("카페"))
		Expect(s.Emoji).To(Equal("☕"))

		_, ok = catalog.Get("moon-base")
		Expect(ok).To(BeFalse())
	})

	It("falls back to the free prompt for unknown ids", func() {
		free, _ := catalog.Get(scenario.FreeID)
		Expect(catalog.SystemPrompt("moon-base")).To(Equal(free.SystemPrompt))
		Expect(catalog.SystemPrompt("")).To(Equal(free.SystemPrompt))
	})

	It("resolves unknown ids to the first scenario", func() {
		Expect(catalog.Resolve("moon-base").ID).To(Equal(scenario.FreeID))
		Expect(catalog.Resolve("taxi").ID).To(Equal("taxi"))
	})

	It("composes roleplay prompts from the shared rules", func() {
		s, _ := catalog.Get("restaurant")
		Expect(s.SystemPrompt).To(HavePrefix("You are Sarah, an English conversation coach playing a restaurant staff role."))
		Expect(s.SystemPrompt).To(ContainSubstring("1. A cheerful waiter"))
		Expect(s.SystemPrompt).To(ContainSubstring("6. A food truck cashier"))
		Expect(s.SystemPrompt).To(ContainSubstring("Greet the customer, ask how many"))
		Expect(s.SystemPrompt).To(ContainSubstring(`🇰🇷 → 🇺🇸 "[English translation]"`))
		Expect(s.SystemPrompt).To(ContainSubstring("💬 더 자연스럽게:"))
	})

	It("uses the default opening instruction when none is given", func() {
		s, _ := catalog.Get("airport")
		Expect(s.SystemPrompt).To(ContainSubstring(`no meta-commentary, no "okay let's start".` + "\n"))
	})

	It("uses the strict Hangul-only translation policy everywhere", func() {
		for _, s := range catalog.All() {
			Expect(s.SystemPrompt).To(ContainSubstring("ONLY if the user's message contains Korean characters"))
		}
	})

	It("keeps the last duplicate in the original position", func() {
		c := scenario.NewCatalog(
			scenario.Scenario{ID: "a", Label: "first"},
			scenario.Scenario{ID: "b"},
			scenario.Scenario{ID: "a", Label: "second"},
		)
		Expect(c.Len()).To(Equal(2))
		Expect(c.All()[0].Label).To(Equal("second"))
	})

	It("resolves to an empty scenario on an empty catalog", func() {
		Expect(scenario.NewCatalog().Resolve("x").ID).To(BeEmpty())
	})
})

var _ = Describe("Opening", func() {
	It("renders static triggers verbatim", func() {
		s, _ := scenario.Default().Get("hotel")
		Expect(s.Opening.Kind).To(Equal(scenario.OpeningStatic))
		Expect(s.Opening.Render(nil)).To(Equal("Please start the scenario now."))
	})

	It("renders a random topic into the template", func() {
		s, _ := scenario.Default().Get(scenario.FreeID)
		Expect(s.Opening.Kind).To(Equal(scenario.OpeningRandomTopic))

		r := rand.New(rand.NewPCG(1, 2))
		text := s.Opening.Render(r)
		Expect(text).To(HavePrefix(`Start a conversation about "`))

		found := false
		for _, topic := range s.Opening.Topics {
			if strings.Contains(text, `"`+topic+`"`) {
				found = true
			}
		}
		Expect(found).To(BeTrue())
	})

	It("is deterministic for a seeded source", func() {
		s, _ := scenario.Default().Get(scenario.FreeID)
		a := s.Opening.Render(rand.New(rand.NewPCG(7, 7)))
		b := s.Opening.Render(rand.New(rand.NewPCG(7, 7)))
		Expect(a).To(Equal(b))
	})

	It("reports empty openings", func() {
		Expect(scenario.Opening{}.Empty()).To(BeTrue())
		Expect(scenario.Opening{Text: "go"}.Empty()).To(BeFalse())
	})
})

var _ = Describe("LoadFile", func() {
	var tmpDir string

	BeforeEach(func() {
		var err error
		tmpDir, err = os.MkdirTemp("", "scenario-test-*")
		Expect(err).NotTo(HaveOccurred())
	})

	AfterEach(func() {
		os.RemoveAll(tmpDir)
	})

	It("returns the default catalog when the file is missing", func() {
		c, err := scenario.LoadFile(filepath.Join(tmpDir, "nope.toml"))
		Expect(err).NotTo(HaveOccurred())
		Expect(c).To(Equal(scenario.Default()))
	})

	It("appends custom scenarios after the built-ins", func() {
		path := filepath.Join(tmpDir, "scenarios.toml")
		Expect(os.WriteFile(path, []byte(customScenarios), 0o600)).To(Succeed())

		c, err := scenario.LoadFile(path)
		Expect(err).NotTo(HaveOccurred())
		Expect(c.Len()).To(Equal(scenario.Default().Len() + 1))

		bank, ok := c.Get("bank")
		Expect(ok).To(BeTrue())
		Expect(bank.Label).To(Equal("은행"))
		Expect(bank.SystemPrompt).To(ContainSubstring("playing a bank teller"))
		Expect(bank.Opening.Render(nil)).To(Equal("Please start the scenario now."))
	})

	It("rejects definitions without a role", func() {
		_, err := scenario.ParseDefinitions([]byte("[[scenario]]\nid = \"x\"\nsituations = [\"s\"]\n"))
		Expect(err).To(MatchError(ContainSubstring("role is required")))
	})

	It("rejects the reserved free id", func() {
		_, err := scenario.ParseDefinitions([]byte("[[scenario]]\nid = \"free\"\nrole = \"r\"\nsituations = [\"s\"]\n"))
		Expect(err).To(MatchError(ContainSubstring("reserved")))
	})

	It("rejects malformed TOML", func() {
		_, err := scenario.ParseDefinitions([]byte("[[[nope"))
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("Watch", func() {
	It("delivers a rebuilt catalog when the file changes", func() {
		tmpDir, err := os.MkdirTemp("", "scenario-watch-*")
		Expect(err).NotTo(HaveOccurred())
		defer os.RemoveAll(tmpDir)

		path := filepath.Join(tmpDir, "scenarios.toml")
		Expect(os.WriteFile(path, []byte(""), 0o600)).To(Succeed())

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		updates := make(chan *scenario.Catalog, 4)
		done := make(chan error, 1)
		go func() {
			done <- scenario.Watch(ctx, path, logger.Nop(), func(c *scenario.Catalog) { updates <- c })
		}()

		Eventually(func() bool {
			_ = os.WriteFile(path, []byte(customScenarios), 0o600)
			select {
			case c := <-updates:
				_, ok := c.Get("bank")
				return ok
			case <-time.After(200 * time.Millisecond):
				return false
			}
		}, 5*time.Second).Should(BeTrue())

		cancel()
		Eventually(done).Should(Receive(BeNil()))
	})
})
