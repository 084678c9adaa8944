package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/kindnest/kindnest-api/internal/dto"
	"github.com/kindnest/kindnest-api/internal/middleware"
	"github.com/kindnest/kindnest-api/internal/service"
	"github.com/kindnest/kindnest-api/pkg/apperror"
	"github.com/kindnest/kindnest-api/pkg/response"
)

type MessageHandler struct {
	messages service.MessageService
}

func NewMessageHandler(messages service.MessageService) *MessageHandler {
	return &MessageHandler{messages: messages}
}

func (h *MessageHandler) Send(c *gin.Context) {
	var req dto.CreateMessageRequest
	if err := bindJSON(c, &req); err != nil {
		response.Error(c, err)
		return
	}

	message, err := h.messages.Send(c.Request.Context(), middleware.CurrentUser(c), req.ForID, req.Text)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, gin.H{"message_item": message})
}

// GetMailbox serves one of the mailbox views. The thread view needs an id
// in the query string since the path segment names the view itself.
func (h *MessageHandler) GetMailbox(c *gin.Context) {
	ctx := c.Request.Context()
	user := middleware.CurrentUser(c)
	page := parsePage(c)

	switch c.Param("mailbox") {
	case service.MailboxInbox:
		result, err := h.messages.Inbox(ctx, user, page)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.OK(c, gin.H{"page": result})
	case service.MailboxOutbox:
		result, err := h.messages.Outbox(ctx, user, page)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.OK(c, gin.H{"page": result})
	case service.MailboxThreads:
		result, err := h.messages.Threads(ctx, user, page)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.OK(c, gin.H{"page": result})
	case service.MailboxThread:
		id, err := parseQueryID(c, "threadID")
		if err != nil {
			response.Error(c, err)
			return
		}
		result, err := h.messages.ThreadMessages(ctx, user, id, page)
		if err != nil {
			response.Error(c, err)
			return
		}
		response.OK(c, gin.H{"page": result})
	default:
		response.Error(c, apperror.BadRequest("unknown mailbox type: "+c.Param("mailbox")))
	}
}

func (h *MessageHandler) Delete(c *gin.Context) {
	id, err := parseID(c, "id")
	if err != nil {
		response.Error(c, err)
		return
	}

	deleted, err := h.messages.Delete(c.Request.Context(), middleware.CurrentUser(c), c.Param("mailbox"), id)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, gin.H{"deleted": deleted})
}

func (h *MessageHandler) Clear(c *gin.Context) {
	deleted, err := h.messages.Clear(c.Request.Context(), middleware.CurrentUser(c), c.Param("mailbox"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, gin.H{"deleted": deleted})
}
