package cliui_test

import (
	"bytes"
	"errors"
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/globalbuddy/buddy/pkg/chat"
	"github.com/globalbuddy/buddy/pkg/cliui"
	"github.com/globalbuddy/buddy/pkg/reply"
	"github.com/globalbuddy/buddy/pkg/scenario"
)

var _ = Describe("Step", func() {
	It("prints a check mark and returns nil on success", func() {
		var buf bytes.Buffer
		err := cliui.Step(&buf, "Connecting", func() error { return nil })
		Expect(err).NotTo(HaveOccurred())
		Expect(buf.String()).To(ContainSubstring("Connecting"))
		Expect(buf.String()).To(ContainSubstring("✓"))
	})

	It("returns the step error", func() {
		var buf bytes.Buffer
		boom := errors.New("boom")
		Expect(cliui.Step(&buf, "Connecting", func() error { return boom })).To(MatchError(boom))
		Expect(buf.String()).To(ContainSubstring("✗"))
	})
})

var _ = Describe("Wait", func() {
	It("erases the spinner line and returns the error", func() {
		var buf bytes.Buffer
		boom := errors.New("boom")
		Expect(cliui.Wait(&buf, "Thinking", func() error { return boom })).To(MatchError(boom))
		Expect(buf.String()).To(HaveSuffix("\r"))
		Expect(buf.String()).NotTo(ContainSubstring("✗"))
	})
})

var _ = Describe("Spinner", func() {
	It("draws its message and can be stopped twice", func() {
		var buf bytes.Buffer
		s := cliui.StartSpinner(&buf, "Connecting")
		Expect(s.Stop()).To(BeNumerically(">=", 0))
		Expect(func() { s.Stop() }).NotTo(Panic())
		Expect(buf.String()).To(ContainSubstring("Connecting"))
	})
})

var _ = Describe("FormatDuration", func() {
	It("uses milliseconds below a second", func() {
		Expect(cliui.FormatDuration(12 * time.Millisecond)).To(Equal("12ms"))
	})

	It("uses seconds otherwise", func() {
		Expect(cliui.FormatDuration(3200 * time.Millisecond)).To(Equal("3.2s"))
	})
})

var _ = Describe("RenderBubble", func() {
	It("shows the translation and alternatives on a user bubble", func() {
		b := chat.Bubble{
			Turn:            chat.NewTurn(chat.SenderUser, "Can I get water", false),
			UserTranslation: "물 좀 주세요",
			Naturalness:     []string{"Could I have some water?", "Water, please."},
		}

		out := cliui.RenderBubble(b, 1)
		Expect(out).To(ContainSubstring("Can I get water"))
		Expect(out).To(ContainSubstring("물 좀 주세요"))
		Expect(out).To(ContainSubstring(cliui.NaturalnessCaption))
		Expect(out).To(ContainSubstring(`① "Could I have some water?"`))
		Expect(out).To(ContainSubstring(`② "Water, please."`))
	})

	It("omits the caption without alternatives", func() {
		b := chat.Bubble{Turn: chat.NewTurn(chat.SenderUser, "물 주세요", false)}
		Expect(cliui.RenderBubble(b, 1)).NotTo(ContainSubstring(cliui.NaturalnessCaption))
	})

	It("folds the reply translation behind a hint", func() {
		b := chat.Bubble{
			Turn: chat.NewTurn(chat.SenderAssistant, "raw", false),
			Reply: reply.Decoded{
				Main:             "Sure, here you go.",
				ReplyTranslation: "네, 여기 있어요.",
				HasSecondary:     true,
			},
		}

		out := cliui.RenderBubble(b, 2)
		Expect(out).To(ContainSubstring("Sure, here you go."))
		Expect(out).To(ContainSubstring("/t 2"))
		Expect(out).NotTo(ContainSubstring("여기 있어요"))

		b.Expanded = true
		Expect(cliui.RenderBubble(b, 2)).To(ContainSubstring("네, 여기 있어요."))
	})

	It("omits the hint when there is no translation", func() {
		b := chat.Bubble{
			Turn:  chat.NewTurn(chat.SenderAssistant, chat.FailureMessage, false),
			Reply: reply.Decode(chat.FailureMessage),
		}
		Expect(cliui.RenderBubble(b, 1)).NotTo(ContainSubstring("/t"))
	})
})

var _ = Describe("RenderScenarios", func() {
	It("lists every scenario id", func() {
		out := cliui.RenderScenarios(scenario.Default().All())
		for _, sc := range scenario.Default().All() {
			Expect(out).To(ContainSubstring("`" + sc.ID + "`"))
		}
	})
})
