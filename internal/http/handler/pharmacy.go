package handler

import (
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"backend-farmacia/internal/helper"
	"backend-farmacia/internal/models"
	"backend-farmacia/internal/pharmacy"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/utils"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// Notifier - dipanggil setelah antrian berubah, biasanya *realtime.Hub
type Notifier interface {
	Broadcast()
}

type noopNotifier struct{}

func (noopNotifier) Broadcast() {}

// OpeningHours - jam buka loket, kosong berarti selalu buka
type OpeningHours struct {
	OpenAt   string
	CloseAt  string
	Location *time.Location
}

type Handler struct {
	pharmacy *pharmacy.Pharmacy
	notifier Notifier
	hours    *OpeningHours
	now      func() time.Time
	logger   logrus.FieldLogger
}

func New(p *pharmacy.Pharmacy, notifier Notifier, logger logrus.FieldLogger) *Handler {
	if notifier == nil {
		notifier = noopNotifier{}
	}

	return &Handler{
		pharmacy: p,
		notifier: notifier,
		now:      time.Now,
		logger:   logger,
	}
}

func (h *Handler) SetOpeningHours(hours OpeningHours) {
	if hours.Location == nil {
		hours.Location = time.Local
	}
	h.hours = &hours
}

func (h *Handler) SetNotifier(n Notifier) {
	h.notifier = n
}

// Routes - pasang semua endpoint apotek ke router
func (h *Handler) Routes(r fiber.Router) {
	r.Get("/", h.Index)
	r.Post("/assign_turn", h.AssignTurn)
	r.Post("/deliver_medications", h.DeliverMedications)
	r.Post("/add_medications", h.AddMedications)
	r.Post("/undo_medication", h.UndoMedication)

	api := r.Group("/api")
	api.Get("/turns", h.GetTurns)
	api.Get("/turns/:turn", h.GetTurn)
	api.Get("/deliveries", h.GetDeliveries)
}

/*
|--------------------------------------------------------------------------
| Request
|--------------------------------------------------------------------------
*/

// AssignTurnRequest - body ambil nomor antrian
type AssignTurnRequest struct {
	CustomerName string `json:"customer_name" form:"customer_name"`
	CustomerID   string `json:"customer_id" form:"customer_id"`
}

// MedicationsRequest - body penyerahan / penambahan obat.
// medications boleh diulang di form (medications=a&medications=b).
type MedicationsRequest struct {
	TurnNumber  json.Number `json:"turn_number" form:"turn_number"`
	Medications []string    `json:"medications" form:"medications"`
}

type TurnRequest struct {
	TurnNumber json.Number `json:"turn_number" form:"turn_number"`
}

func parseTurn(n json.Number) (int, error) {
	turn, err := strconv.Atoi(strings.TrimSpace(n.String()))
	if err != nil {
		return 0, errors.Wrapf(err, "turn_number %q bukan angka", n.String())
	}
	return turn, nil
}

// copyStrings - string hasil BodyParser menunjuk ke buffer fasthttp yang dipakai ulang,
// harus disalin sebelum disimpan di antrian
func copyStrings(in []string) []string {
	out := make([]string, len(in))
	for i, v := range in {
		out[i] = utils.CopyString(v)
	}
	return out
}

func badRequest(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
		"success": false,
		"error":   msg,
	})
}

/*
|--------------------------------------------------------------------------
| Handlers
|--------------------------------------------------------------------------
*/

// Index - daftar antrian & penyerahan dalam bentuk teks tampilan
func (h *Handler) Index(c *fiber.Ctx) error {
	snap := h.pharmacy.Snapshot()

	return c.JSON(fiber.Map{
		"success":    true,
		"turns":      displayTurns(snap.Waiting),
		"deliveries": displayDeliveries(snap.Dispensed),
		"next_turn":  snap.NextTurn,
	})
}

// AssignTurn - ambil nomor antrian baru
func (h *Handler) AssignTurn(c *fiber.Ctx) error {
	if h.hours != nil {
		now := h.now().In(h.hours.Location)
		if !helper.IsQueueOpen(h.hours.OpenAt, h.hours.CloseAt, now) {
			return c.Status(fiber.StatusForbidden).JSON(fiber.Map{
				"success":  false,
				"error":    "Loket apotek sedang tutup",
				"open_at":  h.hours.OpenAt,
				"close_at": h.hours.CloseAt,
			})
		}
	}

	var req AssignTurnRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	customer := h.pharmacy.Enqueue(*models.NewCustomer(
		utils.CopyString(req.CustomerName),
		utils.CopyString(req.CustomerID),
	))
	h.logger.WithField("turn", customer.TurnNumber).Info("[AssignTurn] nomor antrian diberikan")
	h.notifier.Broadcast()

	return c.Status(fiber.StatusCreated).JSON(fiber.Map{
		"success": true,
		"message": "Nomor antrian berhasil diambil",
		"data": fiber.Map{
			"turn_number": customer.TurnNumber,
			"customer":    customer.String(),
		},
	})
}

// DeliverMedications - serahkan obat dan tutup giliran.
// Turn yang tidak ada di antrian tetap 200, delivered=false.
func (h *Handler) DeliverMedications(c *fiber.Ctx) error {
	var req MedicationsRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	turn, err := parseTurn(req.TurnNumber)
	if err != nil {
		h.logger.Debugf("[DeliverMedications] %v", err)
		return badRequest(c, "turn_number wajib berupa angka")
	}

	delivered := h.pharmacy.Dispense(turn, copyStrings(req.Medications))
	entry := h.logger.WithFields(logrus.Fields{"turn": turn, "medications": len(req.Medications)})
	if !delivered {
		entry.Warn("[DeliverMedications] turn tidak ada di antrian")
	} else {
		entry.Info("[DeliverMedications] obat diserahkan")
		h.notifier.Broadcast()
	}

	return c.JSON(fiber.Map{
		"success":   true,
		"delivered": delivered,
	})
}

// AddMedications - catat obat tanpa menutup giliran
func (h *Handler) AddMedications(c *fiber.Ctx) error {
	var req MedicationsRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	turn, err := parseTurn(req.TurnNumber)
	if err != nil {
		return badRequest(c, "turn_number wajib berupa angka")
	}

	added := h.pharmacy.AddMedications(turn, copyStrings(req.Medications))
	if added {
		h.logger.WithField("turn", turn).Info("[AddMedications] obat dicatat")
		h.notifier.Broadcast()
	}

	return c.JSON(fiber.Map{
		"success": true,
		"added":   added,
	})
}

// UndoMedication - batalkan obat terakhir milik pelanggan yang masih menunggu
func (h *Handler) UndoMedication(c *fiber.Ctx) error {
	var req TurnRequest
	if err := c.BodyParser(&req); err != nil {
		return badRequest(c, "Invalid request body")
	}

	turn, err := parseTurn(req.TurnNumber)
	if err != nil {
		return badRequest(c, "turn_number wajib berupa angka")
	}

	med, undone := h.pharmacy.UndoLastMedication(turn)
	if !undone {
		return c.JSON(fiber.Map{
			"success": true,
			"undone":  false,
		})
	}

	h.logger.WithField("turn", turn).Infof("[UndoMedication] %s dibatalkan", med.Name)
	h.notifier.Broadcast()

	return c.JSON(fiber.Map{
		"success": true,
		"undone":  true,
		"data":    med,
	})
}

func (h *Handler) GetTurns(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"success": true,
		"data":    h.pharmacy.Waiting(),
	})
}

func (h *Handler) GetTurn(c *fiber.Ctx) error {
	turn, err := c.ParamsInt("turn")
	if err != nil {
		return badRequest(c, "turn wajib berupa angka")
	}

	customer, ok := h.pharmacy.Customer(turn)
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"success": false,
			"error":   "Nomor antrian tidak ada di antrian",
		})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"data":    customer,
	})
}

func (h *Handler) GetDeliveries(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"success": true,
		"data":    h.pharmacy.Dispensed(),
	})
}
