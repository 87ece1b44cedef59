package http

import (
	"encoding/json"
	"errors"
	"strings"

	"smart-cv-generator/internal/model"
	"smart-cv-generator/internal/usecase"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
)

type Handler struct {
	gen       *usecase.Generator
	validator *model.Validator
	log       zerolog.Logger
}

func NewHandler(gen *usecase.Generator, v *model.Validator, log zerolog.Logger) *Handler {
	return &Handler{gen: gen, validator: v, log: log}
}

// FormPage serves the CV form.
func (h *Handler) FormPage(c *fiber.Ctx) error {
	c.Type("html", "utf-8")
	return h.gen.Templates().RenderForm(c, h.gen.Year())
}

// Generate validates the submitted fields and streams back the PDF.
func (h *Handler) Generate(c *fiber.Ctx) error {
	fields, err := submittedFields(c)
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid payload"})
	}

	rec, err := h.validator.Record(fields)
	if err != nil {
		var verr *model.ValidationError
		if errors.As(err, &verr) {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
				"error":   "validation failed",
				"details": verr.Details,
			})
		}
		return err
	}

	f, err := h.gen.Generate(c.UserContext(), rec)
	if err != nil {
		h.log.Error().Err(err).Str("request_id", requestID(c)).Msg("pdf generation failed")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "pdf generation failed"})
	}

	body, err := f.Open()
	if err != nil {
		_ = f.Remove()
		h.log.Error().Err(err).Str("request_id", requestID(c)).Msg("open generated pdf")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "pdf generation failed"})
	}

	// the body stream is closed after the response is written, which deletes the file
	c.Type("pdf")
	c.Set(fiber.HeaderContentDisposition, contentDisposition(f.DownloadName))
	return c.SendStream(body, int(f.Size))
}

// contentDisposition builds an attachment header for name. Names outside
// printable ASCII get an ASCII fallback plus an RFC 6266 filename* parameter.
func contentDisposition(name string) string {
	fallback := []rune(name)
	plain := true
	for i, r := range fallback {
		if r < 0x20 || r >= 0x7f || r == '"' || r == '\\' {
			fallback[i] = '_'
			plain = false
		}
	}
	v := `attachment; filename="` + string(fallback) + `"`
	if plain {
		return v
	}
	return v + "; filename*=UTF-8''" + encodeExtValue(name)
}

// encodeExtValue percent-encodes every byte outside attr-char (RFC 8187).
func encodeExtValue(s string) string {
	const hex = "0123456789ABCDEF"
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if isAttrChar(c) {
			b.WriteByte(c)
			continue
		}
		b.WriteByte('%')
		b.WriteByte(hex[c>>4])
		b.WriteByte(hex[c&0x0f])
	}
	return b.String()
}

func isAttrChar(c byte) bool {
	switch {
	case 'a' <= c && c <= 'z', 'A' <= c && c <= 'Z', '0' <= c && c <= '9':
		return true
	}
	return strings.IndexByte("!#$&+-.^_`|~", c) >= 0
}

// Health reports liveness.
func (h *Handler) Health(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"status": "ok"})
}

// submittedFields collects the form fields from an urlencoded, multipart or
// JSON body. Empty form values are left out so they count as missing.
func submittedFields(c *fiber.Ctx) (map[string]interface{}, error) {
	fields := map[string]interface{}{}
	if c.Is("json") {
		var body map[string]interface{}
		if err := json.Unmarshal(c.Body(), &body); err != nil {
			return nil, err
		}
		for _, k := range model.FormFields {
			if v, ok := body[k]; ok && v != nil && v != "" {
				fields[k] = v
			}
		}
		return fields, nil
	}
	for _, k := range model.FormFields {
		if v := c.FormValue(k); v != "" {
			fields[k] = v
		}
	}
	return fields, nil
}
