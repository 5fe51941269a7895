package handler

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/stockboard/stockboard/internal/stock"
	"github.com/stockboard/stockboard/internal/stock/service"
	"github.com/stockboard/stockboard/pkg/logger"
)

// Fixed response texts of the stock API.
const (
	MsgListFailed   = "Не удалось обработать данные"
	MsgBadRequest   = "Отсутствуют необходимые данные для добавления акции"
	MsgAdded        = "Акция успешно добавлена!"
	MsgReadFailed   = "Не удалось получить доступ к данным"
	MsgFormatFailed = "Не удалось обработать данные для записи"
	MsgWriteFailed  = "Не удалось сохранить новые данные"
)

const defaultMaxBodyBytes = 1 << 20

// Options tunes route registration.
type Options struct {
	// MaxBodyBytes caps POST bodies; zero means 1 MiB.
	MaxBodyBytes int64
	// WriteGuards run before the add handler (e.g. token checks).
	WriteGuards []gin.HandlerFunc
}

// RegisterStockRoutes mounts GET /api/stocks and POST /api/add-stock.
func RegisterStockRoutes(r gin.IRouter, svc *service.Service, opts Options) {
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = defaultMaxBodyBytes
	}
	h := &stockHandler{svc: svc, maxBody: opts.MaxBodyBytes}

	r.GET("/api/stocks", h.list)
	add := append(append([]gin.HandlerFunc{}, opts.WriteGuards...), h.add)
	r.POST("/api/add-stock", add...)
}

type stockHandler struct {
	svc     *service.Service
	maxBody int64
}

func (h *stockHandler) list(c *gin.Context) {
	records, err := h.svc.List(c.Request.Context())
	if err != nil {
		c.String(http.StatusInternalServerError, MsgListFailed)
		return
	}
	c.JSON(http.StatusOK, records)
}

func (h *stockHandler) add(c *gin.Context) {
	rec, err := h.decode(c)
	if err != nil {
		logger.Debugf("add-stock: rejected body: %v", err)
		c.String(http.StatusBadRequest, MsgBadRequest)
		return
	}

	err = h.svc.Add(c.Request.Context(), rec)
	switch {
	case err == nil:
		c.String(http.StatusCreated, MsgAdded)
	case errors.Is(err, service.ErrInvalidRecord):
		c.String(http.StatusBadRequest, MsgBadRequest)
	case errors.Is(err, stock.ErrStorageRead):
		c.String(http.StatusInternalServerError, MsgReadFailed)
	case errors.Is(err, stock.ErrFormat):
		c.String(http.StatusInternalServerError, MsgFormatFailed)
	default:
		c.String(http.StatusInternalServerError, MsgWriteFailed)
	}
}

var errEmptyBody = errors.New("empty body")

func (h *stockHandler) decode(c *gin.Context) (stock.Record, error) {
	if c.Request.Body == nil {
		return stock.Record{}, errEmptyBody
	}
	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, h.maxBody))
	if err != nil {
		return stock.Record{}, err
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return stock.Record{}, errEmptyBody
	}
	var rec stock.Record
	if err := json.Unmarshal(body, &rec); err != nil {
		return stock.Record{}, err
	}
	return rec, nil
}
