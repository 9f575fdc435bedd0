/*
Package server exposes the NumCode pipeline as a JSON API.

	GET  /api/languages               loaded languages with dictionary sizes
	POST /api/encode                  {"text", "lang"}  → NumCode stream
	POST /api/decode                  {"lang", "numcode"} → text
	POST /api/grid                    {"text", "lang"}  → strip of grids
	POST /api/grid/decode             {"lang", "grids"} → text
	POST /api/wire                    {"text", "lang"}  → wire frame (base64)
	POST /api/wire/decode             {"frame"}         → text
	GET  /api/suggest?lang=&token=    replacements for an unknown token

An empty "lang" asks for language detection. Encoding a text with a word
unknown to the dictionary fails with status 422 and a list of suggestions.
*/
package server

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/npillmayer/numcode"
	"github.com/npillmayer/numcode/grid"
	"github.com/npillmayer/numcode/pipeline"
	"github.com/npillmayer/numcode/suggest"
	"github.com/npillmayer/numcode/wire"
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'numcode.server'
func tracer() tracing.Trace {
	return tracing.Select("numcode.server")
}

// Handler serves API requests.
type Handler struct {
	pipeline    *pipeline.Pipeline
	suggestions *suggest.Set
}

// NewHandler creates a handler for a pipeline.
func NewHandler(p *pipeline.Pipeline) *Handler {
	return &Handler{
		pipeline:    p,
		suggestions: suggest.NewSet(p.Registry()),
	}
}

// New creates an echo instance serving the API of h.
func New(h *Handler) *echo.Echo {
	e := echo.New()
	e.HideBanner = true
	e.HidePort = true
	e.Use(middleware.Recover())
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogMethod:  true,
		LogURI:     true,
		LogStatus:  true,
		LogLatency: true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			tracer().Infof("%s %s %d %s", v.Method, v.URI, v.Status, v.Latency)
			return nil
		},
	}))
	h.RegisterRoutes(e)
	return e
}

// RegisterRoutes installs the API routes.
func (h *Handler) RegisterRoutes(e *echo.Echo) {
	api := e.Group("/api")
	api.GET("/languages", h.GetLanguages)
	api.POST("/encode", h.Encode)
	api.POST("/decode", h.Decode)
	api.POST("/grid", h.EncodeGrid)
	api.POST("/grid/decode", h.DecodeGrid)
	api.POST("/wire", h.EncodeWire)
	api.POST("/wire/decode", h.DecodeWire)
	api.GET("/suggest", h.Suggest)
}

// --- Request and response bodies ---

// TextRequest asks for a text to be encoded.
type TextRequest struct {
	Text string `json:"text"`
	Lang string `json:"lang"`
}

// StreamRequest asks for a NumCode stream to be decoded.
type StreamRequest struct {
	Lang    string `json:"lang"`
	NumCode string `json:"numcode"`
}

// GridRequest asks for a strip of grids to be decoded. Grids are written
// as returned by /api/grid.
type GridRequest struct {
	Lang  string   `json:"lang"`
	Grids []string `json:"grids"`
}

// FrameRequest asks for a wire frame to be decoded.
type FrameRequest struct {
	Frame []byte `json:"frame"`
}

// EncodeResponse describes an encoded text.
type EncodeResponse struct {
	Language string `json:"lang"`
	DataType string `json:"datatype,omitempty"`
	NumCode  string `json:"numcode"`
	Units    int    `json:"units"`
}

// DecodeResponse describes a decoded message.
type DecodeResponse struct {
	Language string   `json:"lang"`
	DataType string   `json:"datatype,omitempty"`
	Text     string   `json:"text"`
	Tokens   []string `json:"tokens"`
}

// GridResponse carries a strip of grids.
type GridResponse struct {
	Language string     `json:"lang"`
	Grids    []string   `json:"grids"`
	Cells    [][][2]int `json:"cells"`
	Numeral  int        `json:"numeralCells"`
}

// WireResponse carries a wire frame.
type WireResponse struct {
	Language string `json:"lang"`
	Frame    []byte `json:"frame"`
	Size     int    `json:"size"`
	TextSize int    `json:"textSize"`
}

// LanguageInfo describes a loaded dictionary.
type LanguageInfo struct {
	Language string `json:"lang"`
	Tokens   int    `json:"tokens"`
}

// ErrorResponse reports a failed request. Suggestions are given for
// unknown tokens.
type ErrorResponse struct {
	Error       string          `json:"error"`
	Token       string          `json:"token,omitempty"`
	Suggestions []numcode.Entry `json:"suggestions,omitempty"`
}

// --- Handlers ---

// GetLanguages lists the loaded dictionaries.
func (h *Handler) GetLanguages(c echo.Context) error {
	reg := h.pipeline.Registry()
	infos := make([]LanguageInfo, 0, reg.Len())
	for _, lang := range reg.Languages() {
		dict, _ := reg.Dictionary(lang)
		infos = append(infos, LanguageInfo{Language: string(lang), Tokens: dict.Len()})
	}
	return c.JSON(http.StatusOK, infos)
}

// Encode encodes a text into a NumCode stream.
func (h *Handler) Encode(c echo.Context) error {
	var req TextRequest
	lang, err := h.bindText(c, &req)
	if err != nil {
		return err
	}
	msg, err := h.pipeline.Encode(req.Text, lang)
	if err != nil {
		return h.fail(c, lang, err)
	}
	return c.JSON(http.StatusOK, EncodeResponse{
		Language: string(msg.Language),
		DataType: string(msg.DataType),
		NumCode:  msg.Stream.String(),
		Units:    len(msg.Stream),
	})
}

// Decode decodes a NumCode stream.
func (h *Handler) Decode(c echo.Context) error {
	var req StreamRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	lang, err := numcode.ParseLanguageTag(req.Lang)
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	stream, err := numcode.ParseStream(req.NumCode)
	if err != nil {
		return h.fail(c, lang, err)
	}
	res, err := h.pipeline.Decode(pipeline.Message{Language: lang, Stream: stream})
	if err != nil {
		return h.fail(c, lang, err)
	}
	return c.JSON(http.StatusOK, decodeResponse(res))
}

// EncodeGrid encodes a text onto a strip of grids.
func (h *Handler) EncodeGrid(c echo.Context) error {
	var req TextRequest
	lang, err := h.bindText(c, &req)
	if err != nil {
		return err
	}
	msg, err := h.pipeline.Encode(req.Text, lang)
	if err != nil {
		return h.fail(c, lang, err)
	}
	strip, err := grid.EncodeStrip(msg.Stream, msg.Language, msg.DataType)
	if err != nil {
		return h.fail(c, msg.Language, err)
	}
	resp := GridResponse{Language: string(msg.Language)}
	for _, g := range strip {
		resp.Grids = append(resp.Grids, g.String())
		var cells [][2]int
		for _, cell := range g.Cells() {
			cells = append(cells, [2]int{cell.Row, cell.Col})
		}
		resp.Cells = append(resp.Cells, cells)
		resp.Numeral += grid.NumeralCells(g)
	}
	return c.JSON(http.StatusOK, resp)
}

// DecodeGrid decodes a strip of grids.
func (h *Handler) DecodeGrid(c echo.Context) error {
	var req GridRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	var fallback numcode.LanguageTag
	if req.Lang != "" {
		lang, err := numcode.ParseLanguageTag(req.Lang)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, err.Error())
		}
		fallback = lang
	}
	strip := make([]grid.Grid, len(req.Grids))
	for i, s := range req.Grids {
		g, err := grid.Parse(s)
		if err != nil {
			return echo.NewHTTPError(http.StatusBadRequest, "grid "+strconv.Itoa(i)+": "+err.Error())
		}
		strip[i] = g
	}
	res, err := h.pipeline.DecodeGrid(strip, fallback)
	if err != nil {
		return h.fail(c, fallback, err)
	}
	return c.JSON(http.StatusOK, decodeResponse(res))
}

// EncodeWire encodes a text into a wire frame.
func (h *Handler) EncodeWire(c echo.Context) error {
	var req TextRequest
	lang, err := h.bindText(c, &req)
	if err != nil {
		return err
	}
	msg, err := h.pipeline.Encode(req.Text, lang)
	if err != nil {
		return h.fail(c, lang, err)
	}
	frame, err := wire.EncodeFrame(wire.Frame{Language: msg.Language, DataType: msg.DataType, Stream: msg.Stream})
	if err != nil {
		return h.fail(c, msg.Language, err)
	}
	return c.JSON(http.StatusOK, WireResponse{
		Language: string(msg.Language),
		Frame:    frame,
		Size:     len(frame),
		TextSize: len(req.Text),
	})
}

// DecodeWire decodes a wire frame.
func (h *Handler) DecodeWire(c echo.Context) error {
	var req FrameRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	res, err := h.pipeline.DecodeWire(req.Frame)
	if err != nil {
		return h.fail(c, "", err)
	}
	return c.JSON(http.StatusOK, decodeResponse(res))
}

// Suggest proposes dictionary tokens for an unknown token.
func (h *Handler) Suggest(c echo.Context) error {
	lang, err := numcode.ParseLanguageTag(c.QueryParam("lang"))
	if err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	limit, err := strconv.Atoi(c.QueryParam("limit"))
	if err != nil || limit <= 0 {
		limit = 10
	}
	ix, err := h.suggestions.Index(lang)
	if err != nil {
		return echo.NewHTTPError(http.StatusNotFound, err.Error())
	}
	return c.JSON(http.StatusOK, ix.Suggest(c.QueryParam("token"), limit))
}

// --- Helpers ---

// bindText binds a text request and resolves its language, detecting it
// if the request leaves it open.
func (h *Handler) bindText(c echo.Context, req *TextRequest) (numcode.LanguageTag, error) {
	if err := c.Bind(req); err != nil {
		return "", echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	if req.Lang == "" {
		return h.pipeline.Detect(req.Text), nil
	}
	lang, err := numcode.ParseLanguageTag(req.Lang)
	if err != nil {
		return "", echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}
	return lang, nil
}

func decodeResponse(res pipeline.Result) DecodeResponse {
	return DecodeResponse{
		Language: string(res.Language),
		DataType: string(res.DataType),
		Text:     res.Text,
		Tokens:   numcode.Norms(res.Tokens),
	}
}

// fail maps codec errors to status codes. Unknown tokens are answered
// with suggestions from the dictionary of lang.
func (h *Handler) fail(c echo.Context, lang numcode.LanguageTag, err error) error {
	tracer().Debugf("request failed: %v", err)
	resp := ErrorResponse{Error: err.Error()}
	var terr *numcode.TokenError
	switch {
	case errors.As(err, &terr) && errors.Is(err, numcode.ErrUnknownToken):
		resp.Token = terr.Token.Norm
		if ix, ierr := h.suggestions.Index(lang); ierr == nil {
			resp.Suggestions = ix.Suggest(terr.Token.Norm, 5)
		}
		return c.JSON(http.StatusUnprocessableEntity, resp)
	case errors.Is(err, numcode.ErrUnsupportedLanguage):
		return c.JSON(http.StatusNotFound, resp)
	case errors.Is(err, numcode.ErrUnknownID),
		errors.Is(err, numcode.ErrMalformedStream),
		errors.Is(err, numcode.ErrOverflow),
		errors.Is(err, numcode.ErrExpansionLimit),
		errors.Is(err, grid.ErrCorruptGrid),
		errors.Is(err, wire.ErrCorruptWire):
		return c.JSON(http.StatusUnprocessableEntity, resp)
	}
	return err
}
