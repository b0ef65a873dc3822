package server

import (
	"fmt"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/zulandar/quotewire/internal/conversation"
	"github.com/zulandar/quotewire/internal/fallback"
	"github.com/zulandar/quotewire/internal/models"
	"github.com/zulandar/quotewire/internal/quote"
)

func (s *Server) registerRoutes() {
	s.router.POST("/webhook/voice", s.handleVoice)
	s.router.POST("/webhook/speech", s.handleSpeech)
	s.router.POST("/webhook/status", s.handleStatus)
	s.router.POST("/webhook/chat", s.handleChat)

	s.router.GET("/health", s.handleHealth)
	s.router.GET("/api/sessions", s.handleSessionList)
	s.router.GET("/api/sessions/:id", s.handleSessionDetail)
	s.router.GET("/api/quotations", s.handleQuotationList)
	s.router.GET("/api/quotations/export", s.handleQuotationExport)
}

func (s *Server) lookupCompany(id string) (models.Company, error) {
	var company models.Company
	if id == "" {
		// Single-company deployments omit the parameter.
		if err := s.opts.DB.First(&company).Error; err != nil {
			return company, fmt.Errorf("server: no company profile seeded: %w", err)
		}
		return company, nil
	}
	if err := s.opts.DB.First(&company, "id = ?", id).Error; err != nil {
		return company, fmt.Errorf("server: company %s: %w", id, err)
	}
	return company, nil
}

// sessionCompany resolves the company a running session belongs to.
func (s *Server) sessionCompany(sessionID string) (models.Session, models.Company, error) {
	var session models.Session
	if err := s.opts.DB.First(&session, "id = ?", sessionID).Error; err != nil {
		return session, models.Company{}, fmt.Errorf("server: session %s: %w", sessionID, err)
	}
	company, err := s.lookupCompany(session.CompanyID)
	return session, company, err
}

// handleVoice answers the provider's call-started webhook with the
// greeting and a speech gather.
func (s *Server) handleVoice(c *gin.Context) {
	callID := c.PostForm("CallSid")
	vendor := c.PostForm("To")
	if callID == "" {
		c.String(http.StatusBadRequest, "missing CallSid")
		return
	}

	company, err := s.lookupCompany(c.Query("company"))
	if err != nil {
		log.Printf("server: voice webhook: %v", err)
		c.String(http.StatusNotFound, "unknown company")
		return
	}

	greeting, err := s.opts.Engine.Begin(c.Request.Context(), conversation.Event{
		SessionID:     callID,
		Channel:       models.ChannelVoice,
		VendorAddress: vendor,
		Company:       company,
	})
	if err != nil {
		log.Printf("server: begin session %s: %v", callID, err)
		c.String(http.StatusInternalServerError, "session start failed")
		return
	}

	body, err := gatherTwiML(greeting, "/webhook/speech")
	if err != nil {
		c.String(http.StatusInternalServerError, "twiml failed")
		return
	}
	c.Data(http.StatusOK, "application/xml", body)
}

// handleSpeech folds one recognized speech segment into the conversation
// and answers with either the next question or the closing message.
func (s *Server) handleSpeech(c *gin.Context) {
	callID := c.PostForm("CallSid")
	utterance := c.PostForm("SpeechResult")
	if callID == "" {
		c.String(http.StatusBadRequest, "missing CallSid")
		return
	}

	session, company, err := s.sessionCompany(callID)
	if err != nil {
		log.Printf("server: speech webhook: %v", err)
		c.String(http.StatusNotFound, "unknown session")
		return
	}

	if utterance == "" {
		// No speech recognized: re-prompt without consuming a turn.
		body, err := gatherTwiML("Sorry, I could not hear you. Could you please repeat?", "/webhook/speech")
		if err != nil {
			c.String(http.StatusInternalServerError, "twiml failed")
			return
		}
		c.Data(http.StatusOK, "application/xml", body)
		return
	}

	reply, err := s.opts.Engine.ProcessUtterance(c.Request.Context(), conversation.Event{
		SessionID:     callID,
		Channel:       models.ChannelVoice,
		VendorAddress: session.VendorAddress,
		Utterance:     utterance,
		Company:       company,
	})
	if err != nil {
		log.Printf("server: process utterance for %s: %v", callID, err)
		c.String(http.StatusConflict, "session not accepting input")
		return
	}

	var body []byte
	if reply.Done {
		body, err = closingTwiML(reply.Text)
	} else {
		body, err = gatherTwiML(reply.Text, "/webhook/speech")
	}
	if err != nil {
		c.String(http.StatusInternalServerError, "twiml failed")
		return
	}
	c.Data(http.StatusOK, "application/xml", body)
}

// handleStatus reacts to provider status callbacks: failures trigger the
// chat fallback, completion finalizes a session the policy never closed.
func (s *Server) handleStatus(c *gin.Context) {
	callID := c.PostForm("CallSid")
	status := c.PostForm("CallStatus")
	vendor := c.PostForm("To")
	if callID == "" || status == "" {
		c.String(http.StatusBadRequest, "missing CallSid or CallStatus")
		return
	}
	ctx := c.Request.Context()

	switch {
	case fallback.ValidReason(status):
		if s.opts.Coordinator == nil {
			c.Status(http.StatusOK)
			return
		}
		session, company, err := s.sessionCompany(callID)
		if err == nil && session.VendorAddress != "" {
			vendor = session.VendorAddress
		} else if err != nil {
			// Calls can fail before the voice webhook ever fired; fall
			// back to the callback's address with a default company.
			company, err = s.lookupCompany("")
			if err != nil {
				log.Printf("server: status webhook: %v", err)
				c.Status(http.StatusOK)
				return
			}
		}

		req, err := s.opts.Coordinator.OnChannelFailure(ctx, callID, vendor, status, company)
		if err != nil {
			log.Printf("server: fallback for %s: %v", callID, err)
			c.Status(http.StatusOK)
			return
		}
		if req == nil {
			c.Status(http.StatusOK)
			return
		}
		s.dispatchOutreach(c, req, status)

	case status == "completed":
		_, company, err := s.sessionCompany(callID)
		if err == nil {
			err = s.opts.Engine.OnSessionDropped(ctx, conversation.Event{
				SessionID:     callID,
				Channel:       models.ChannelVoice,
				VendorAddress: vendor,
				Company:       company,
			}, "call_completed")
			if err != nil {
				log.Printf("server: finalize %s: %v", callID, err)
			}
		}
		c.Status(http.StatusOK)

	default:
		c.Status(http.StatusOK)
	}
}

func (s *Server) dispatchOutreach(c *gin.Context, req *fallback.OutreachRequest, reason string) {
	ctx := c.Request.Context()
	sendOK := false
	if s.opts.Chat != nil {
		if err := s.opts.Chat.SendMessage(ctx, req.VendorAddress, req.Message); err != nil {
			log.Printf("server: outreach to %s: %v", req.VendorAddress, err)
		} else {
			sendOK = true
		}
	}
	if err := s.opts.Coordinator.MarkSendResult(ctx, req.SessionID, sendOK); err != nil {
		log.Printf("server: %v", err)
	}
	if s.opts.Notifier != nil {
		if err := s.opts.Notifier.FallbackAttempted(ctx, req.SessionID, req.VendorAddress, reason, sendOK); err != nil {
			log.Printf("server: fallback notification: %v", err)
		}
	}
	c.Status(http.StatusOK)
}

type chatWebhook struct {
	From    string `json:"from" form:"From"`
	Body    string `json:"body" form:"Body"`
	Company string `json:"company" form:"Company"`
}

// handleChat folds one inbound chat message and returns the reply as JSON
// for the chat transport to deliver.
func (s *Server) handleChat(c *gin.Context) {
	var in chatWebhook
	if err := c.ShouldBind(&in); err != nil || in.From == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "missing sender"})
		return
	}

	company, err := s.lookupCompany(in.Company)
	if err != nil {
		log.Printf("server: chat webhook: %v", err)
		c.JSON(http.StatusNotFound, gin.H{"error": "unknown company"})
		return
	}

	// Chat sessions key on the vendor address itself.
	sessionID := "chat:" + in.From
	reply, err := s.opts.Engine.ProcessUtterance(c.Request.Context(), conversation.Event{
		SessionID:     sessionID,
		Channel:       models.ChannelChat,
		VendorAddress: in.From,
		Utterance:     in.Body,
		Company:       company,
	})
	if err != nil {
		log.Printf("server: process chat for %s: %v", sessionID, err)
		c.JSON(http.StatusConflict, gin.H{"error": "session not accepting input"})
		return
	}
	c.JSON(http.StatusOK, gin.H{
		"reply": reply.Text,
		"done":  reply.Done,
	})
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":          "ok",
		"active_sessions": s.opts.Engine.Store().Len(),
	})
}

func (s *Server) handleSessionList(c *gin.Context) {
	var sessions []models.Session
	q := s.opts.DB.Order("created_at DESC")
	if status := c.Query("status"); status != "" {
		q = q.Where("status = ?", status)
	}
	if err := q.Find(&sessions).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, sessions)
}

func (s *Server) handleSessionDetail(c *gin.Context) {
	var session models.Session
	err := s.opts.DB.Preload("Turns", func(db *gorm.DB) *gorm.DB {
		return db.Order("number ASC")
	}).First(&session, "id = ?", c.Param("id")).Error
	if err == gorm.ErrRecordNotFound {
		c.JSON(http.StatusNotFound, gin.H{"error": "session not found"})
		return
	}
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, session)
}

func (s *Server) handleQuotationList(c *gin.Context) {
	var records []models.Quotation
	q := s.opts.DB.Preload("Items").Order("created_at DESC")
	if quality := c.Query("quality"); quality != "" {
		q = q.Where("quality = ?", quality)
	}
	if err := q.Find(&records).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, records)
}

func (s *Server) handleQuotationExport(c *gin.Context) {
	var records []models.Quotation
	if err := s.opts.DB.Preload("Items").Order("created_at ASC").Find(&records).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	switch c.DefaultQuery("format", "csv") {
	case "json":
		c.Header("Content-Disposition", `attachment; filename="quotations.json"`)
		c.Header("Content-Type", "application/json")
		if err := quote.ExportJSON(c.Writer, records); err != nil {
			log.Printf("server: %v", err)
		}
	case "csv":
		c.Header("Content-Disposition", `attachment; filename="quotations.csv"`)
		c.Header("Content-Type", "text/csv")
		if err := quote.ExportCSV(c.Writer, records); err != nil {
			log.Printf("server: %v", err)
		}
	default:
		c.JSON(http.StatusBadRequest, gin.H{"error": "format must be csv or json"})
	}
}
