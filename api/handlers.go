package api

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/globalbuddy/buddy/pkg/chat"
	"github.com/globalbuddy/buddy/pkg/llm"
	"github.com/globalbuddy/buddy/pkg/reply"
	"github.com/globalbuddy/buddy/pkg/storage"
)

// ChatResponse is the body of a successful POST /api/chat.
type ChatResponse struct {
	Reply string `json:"reply"`
}

// DecodeRequest is the body of POST /api/decode.
type DecodeRequest struct {
	Text string `json:"text"`
}

// handlePing returns a simple health check response.
func (s *Server) handlePing(c *fiber.Ctx) error {
	return c.JSON("pong")
}

// handleListScenarios returns the scenario cards in catalog order.
func (s *Server) handleListScenarios(c *fiber.Ctx) error {
	return c.JSON(s.relay.Catalog().All())
}

// handleChat relays a conversation and answers with the raw reply.
// Generation failures are reported with the fixed user-facing message.
func (s *Server) handleChat(c *fiber.Ctx) error {
	var req chat.Request
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(llm.ErrorResponse{Error: "invalid request body"})
	}
	if len(req.Messages) == 0 {
		return c.Status(fiber.StatusBadRequest).JSON(llm.ErrorResponse{Error: "messages are required"})
	}

	text, err := s.relay.Reply(c.UserContext(), req)
	if err != nil {
		s.logger.Error("chat reply failed",
			"session_id", req.SessionID,
			"scenario", req.ScenarioID,
			"error", err,
		)
		return c.Status(fiber.StatusInternalServerError).JSON(llm.ErrorResponse{Error: chat.FailureMessage})
	}

	return c.JSON(ChatResponse{Reply: text})
}

// handleDecode splits raw reply text into its display parts.
func (s *Server) handleDecode(c *fiber.Ctx) error {
	var req DecodeRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(llm.ErrorResponse{Error: "invalid request body"})
	}

	return c.JSON(reply.Decode(req.Text))
}

// handleListSessions returns stored sessions, most recent first.
func (s *Server) handleListSessions(c *fiber.Ctx) error {
	if s.storer == nil {
		return c.Status(fiber.StatusNotFound).JSON(llm.ErrorResponse{Error: "transcript storage disabled"})
	}

	sessions, err := s.storer.Sessions(c.UserContext())
	if err != nil {
		s.logger.Error("failed to list sessions", "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(llm.ErrorResponse{Error: "failed to list sessions"})
	}
	if sessions == nil {
		sessions = []storage.Session{}
	}

	return c.JSON(sessions)
}

// handleSessionTurns returns one session's stored turns, oldest first.
func (s *Server) handleSessionTurns(c *fiber.Ctx) error {
	if s.storer == nil {
		return c.Status(fiber.StatusNotFound).JSON(llm.ErrorResponse{Error: "transcript storage disabled"})
	}

	id := c.Params("id")
	if id == "" {
		return c.Status(fiber.StatusBadRequest).JSON(llm.ErrorResponse{Error: "id parameter required"})
	}

	turns, err := s.storer.Turns(c.UserContext(), id)
	if err != nil {
		var nf storage.NotFoundError
		if errors.As(err, &nf) {
			return c.Status(fiber.StatusNotFound).JSON(llm.ErrorResponse{Error: "session not found"})
		}
		s.logger.Error("failed to list turns", "session_id", id, "error", err)
		return c.Status(fiber.StatusInternalServerError).JSON(llm.ErrorResponse{Error: "failed to list turns"})
	}
	if len(turns) == 0 {
		return c.Status(fiber.StatusNotFound).JSON(llm.ErrorResponse{Error: "session not found"})
	}

	return c.JSON(turns)
}
