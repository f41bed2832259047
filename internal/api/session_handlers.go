package api

import (
	"errors"
	"io"
	"log"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/nftfolio/templatepress/internal/api/middleware"
	"github.com/nftfolio/templatepress/internal/models"
	"github.com/nftfolio/templatepress/internal/pipeline"
)

type createSessionRequest struct {
	ChainKey       string `json:"chain_key"`
	CollectionName string `json:"collection_name"`
}

// handleCreateSession opens a template session: collection lookup, schema
// listing, permission guard. Pre-flight failures (permission, no schemas)
// carry a call-to-action instead of an error modal payload.
func (s *Server) handleCreateSession(c *fiber.Ctx) error {
	user := middleware.GetAuthenticatedUser(c)
	if user == nil {
		return c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Not authenticated"})
	}

	var req createSessionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	chain, ok := s.chains[req.ChainKey]
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Unknown chain key: " + req.ChainKey})
	}

	collection, err := chain.GetCollection(c.Context(), req.CollectionName)
	if err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Collection not found", "details": err.Error()})
	}

	schemas, err := chain.ListSchemas(c.Context(), req.CollectionName)
	if err != nil {
		return c.Status(fiber.StatusBadGateway).JSON(fiber.Map{"error": "Failed to list schemas", "details": err.Error()})
	}

	controller, err := pipeline.NewController(chain, s.uploader, *collection, schemas, user.Account, s.pipelineCfg)
	if err != nil {
		var denied *pipeline.PermissionDeniedError
		if errors.As(err, &denied) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"error":  "Permission denied",
				"action": "Only the collection author or an authorized account can create templates.",
			})
		}
		if errors.Is(err, pipeline.ErrNoSchemaAvailable) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{
				"error":  "There is no schema",
				"action": "Please create a schema to continue.",
			})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	session, err := s.sessionService.CreateSession(user.Account, req.ChainKey, req.CollectionName)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create session", "details": err.Error()})
	}
	if err := s.sessionService.SaveAttributes(session.ID, controller.SchemaName(), controller.Attributes()); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to save session", "details": err.Error()})
	}

	s.mu.Lock()
	s.controllers[session.ID] = controller
	s.mu.Unlock()

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"session_id":  session.ID,
		"collection":  collection,
		"schemas":     schemas,
		"schema_name": controller.SchemaName(),
		"attributes":  controller.Attributes(),
	})
}

// resolveSession returns the controller and session for a request, enforcing
// that the session belongs to the authenticated account.
func (s *Server) resolveSession(c *fiber.Ctx) (*pipeline.Controller, *models.TemplateSession, error) {
	user := middleware.GetAuthenticatedUser(c)
	if user == nil {
		return nil, nil, c.Status(fiber.StatusUnauthorized).JSON(fiber.Map{"error": "Not authenticated"})
	}

	sessionID := c.Params("session_id")
	session, err := s.sessionService.GetSession(sessionID)
	if err != nil {
		return nil, nil, c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Session not found"})
	}
	if session.Account != user.Account {
		return nil, nil, c.Status(fiber.StatusForbidden).JSON(fiber.Map{"error": "Session belongs to another account"})
	}

	s.mu.Lock()
	controller, ok := s.controllers[sessionID]
	s.mu.Unlock()
	if !ok {
		return nil, nil, c.Status(fiber.StatusGone).JSON(fiber.Map{"error": "Session state expired, open a new session"})
	}
	return controller, session, nil
}

func (s *Server) handleGetSession(c *fiber.Ctx) error {
	controller, session, err := s.resolveSession(c)
	if controller == nil {
		return err
	}
	return c.JSON(fiber.Map{
		"session_id":  session.ID,
		"schema_name": controller.SchemaName(),
		"attributes":  controller.Attributes(),
		"state":       controller.State(),
	})
}

type selectSchemaRequest struct {
	SchemaName string `json:"schema_name"`
}

func (s *Server) handleSelectSchema(c *fiber.Ctx) error {
	controller, session, err := s.resolveSession(c)
	if controller == nil {
		return err
	}

	var req selectSchemaRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	attrs, err := controller.SelectSchema(req.SchemaName)
	if err != nil {
		var notFound *pipeline.SchemaNotFoundError
		if errors.As(err, &notFound) {
			return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}
	if err := s.sessionService.SaveAttributes(session.ID, req.SchemaName, attrs); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to save session", "details": err.Error()})
	}

	return c.JSON(fiber.Map{
		"schema_name": req.SchemaName,
		"attributes":  attrs,
	})
}

type setImmutableRequest struct {
	IsImmutable bool `json:"is_immutable"`
}

func (s *Server) handleSetImmutable(c *fiber.Ctx) error {
	controller, session, err := s.resolveSession(c)
	if controller == nil {
		return err
	}

	index, err := strconv.Atoi(c.Params("index"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid attribute index"})
	}

	var req setImmutableRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	attrs, err := controller.SetImmutable(index, req.IsImmutable)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if err := s.sessionService.SaveAttributes(session.ID, controller.SchemaName(), attrs); err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to save session", "details": err.Error()})
	}

	return c.JSON(fiber.Map{"attributes": attrs})
}

func (s *Server) handleListSubmissions(c *fiber.Ctx) error {
	controller, session, err := s.resolveSession(c)
	if controller == nil {
		return err
	}

	records, err := s.submissionService.ListSubmissions(session.ID)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to list submissions", "details": err.Error()})
	}
	return c.JSON(fiber.Map{"submissions": records})
}

// snapshotFromForm builds a FormSnapshot from the submitted multipart form.
// Reserved fields configure the template; every other value field and every
// file field is an attribute value.
func snapshotFromForm(c *fiber.Ctx) (models.FormSnapshot, error) {
	form, err := c.MultipartForm()
	if err != nil {
		return models.FormSnapshot{}, err
	}

	snapshot := models.FormSnapshot{
		Attributes: make(map[string]models.RawValue),
	}

	first := func(key string) string {
		if values, ok := form.Value[key]; ok && len(values) > 0 {
			return values[0]
		}
		return ""
	}

	snapshot.SchemaName = first("schema_name")
	snapshot.Transferable = first("transferable") == "true"
	snapshot.Burnable = first("burnable") == "true"
	if raw := first("max_supply"); raw != "" {
		maxSupply, err := strconv.ParseUint(raw, 10, 64)
		if err != nil {
			return models.FormSnapshot{}, err
		}
		snapshot.MaxSupply = maxSupply
	}

	reserved := map[string]bool{
		"schema_name": true, "transferable": true, "burnable": true, "max_supply": true,
	}
	for key, values := range form.Value {
		if reserved[key] || len(values) == 0 {
			continue
		}
		snapshot.Attributes[key] = models.TextValue(values[0])
	}

	for key, headers := range form.File {
		if len(headers) == 0 {
			continue
		}
		file, err := headers[0].Open()
		if err != nil {
			return models.FormSnapshot{}, err
		}
		data, err := io.ReadAll(file)
		file.Close()
		if err != nil {
			return models.FormSnapshot{}, err
		}
		snapshot.Attributes[key] = models.BlobValue(data)
	}

	return snapshot, nil
}

func (s *Server) handleSubmit(c *fiber.Ctx) error {
	controller, session, err := s.resolveSession(c)
	if controller == nil {
		return err
	}

	snapshot, err := snapshotFromForm(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid form", "details": err.Error()})
	}
	if snapshot.SchemaName == "" {
		snapshot.SchemaName = controller.SchemaName()
	}

	record, err := s.submissionService.CreateSubmission(session.ID, snapshot.SchemaName)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to record submission", "details": err.Error()})
	}

	result, err := controller.Submit(c.Context(), snapshot)
	if err != nil {
		if errors.Is(err, pipeline.ErrSubmissionInFlight) {
			return c.Status(fiber.StatusConflict).JSON(fiber.Map{"error": err.Error()})
		}

		var subErr *pipeline.SubmissionError
		if errors.As(err, &subErr) {
			if dbErr := s.submissionService.MarkFailed(record.ID, subErr.Message, subErr.Details); dbErr != nil {
				log.Printf("failed to update submission record %d: %v\n", record.ID, dbErr)
			}
			return c.Status(fiber.StatusUnprocessableEntity).JSON(subErr)
		}
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": err.Error()})
	}

	if dbErr := s.submissionService.MarkConfirmed(record.ID, result.TemplateID); dbErr != nil {
		log.Printf("failed to update submission record %d: %v\n", record.ID, dbErr)
	}

	response := fiber.Map{
		"transaction_id": result.TransactionID,
		"state":          controller.State(),
	}
	if result.RefreshErr != nil {
		// The template exists; only the redirect lookup failed.
		response["refresh_error"] = result.RefreshErr.Error()
	} else {
		response["template_id"] = result.TemplateID
		response["redirect"] = "/" + session.ChainKey + "/collection/" + session.CollectionName + "/template/" + result.TemplateID
	}
	return c.JSON(response)
}
