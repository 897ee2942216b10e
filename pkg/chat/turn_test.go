package chat_test

import (
	"encoding/json"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/globalbuddy/buddy/pkg/chat"
)

var _ = Describe("Turn", func() {
	Describe("UnmarshalJSON", func() {
		DescribeTable("accepts string and numeric ids",
			func(body string, wantID string) {
				var t chat.Turn
				Expect(json.Unmarshal([]byte(body), &t)).To(Succeed())
				Expect(t.ID).To(Equal(wantID))
				Expect(t.Text).To(Equal("hi"))
				Expect(t.Sender).To(Equal(chat.SenderUser))
			},
			Entry("uuid", `{"id":"0195c3a1-7b7e-7000-8000-000000000000","text":"hi","sender":"user"}`, "0195c3a1-7b7e-7000-8000-000000000000"),
			Entry("zero", `{"id":0,"text":"hi","sender":"user"}`, "0"),
			Entry("timestamp", `{"id":1741338000000,"text":"hi","sender":"user"}`, "1741338000000"),
			Entry("missing", `{"text":"hi","sender":"user"}`, ""),
			Entry("null", `{"id":null,"text":"hi","sender":"user"}`, ""),
		)

		It("keeps the hidden flag", func() {
			var t chat.Turn
			Expect(json.Unmarshal([]byte(`{"id":0,"text":"hi","sender":"user","hidden":true}`), &t)).To(Succeed())
			Expect(t.Hidden).To(BeTrue())
		})

		It("rejects other id types", func() {
			var t chat.Turn
			Expect(json.Unmarshal([]byte(`{"id":true,"text":"hi","sender":"user"}`), &t)).NotTo(Succeed())
		})

		It("round-trips through a request", func() {
			req := chat.Request{
				SessionID:  "s1",
				ScenarioID: "cafe",
				Messages:   []chat.Turn{chat.NewTurn(chat.SenderAssistant, "Hello!", false)},
			}
			data, err := json.Marshal(req)
			Expect(err).NotTo(HaveOccurred())

			var got chat.Request
			Expect(json.Unmarshal(data, &got)).To(Succeed())
			Expect(got.Messages[0].ID).To(Equal(req.Messages[0].ID))
			Expect(got.Messages[0].Sender).To(Equal(chat.SenderAssistant))
			Expect(got.Messages[0].CreatedAt.Equal(req.Messages[0].CreatedAt)).To(BeTrue())
		})
	})
})
