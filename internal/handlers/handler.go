package handlers

import (
	"errors"
	"strconv"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/sirupsen/logrus"

	"telegram-order-bot/internal/catalog"
	"telegram-order-bot/internal/messages"
	"telegram-order-bot/internal/metrics"
	"telegram-order-bot/internal/models"
	"telegram-order-bot/internal/registry"
	"telegram-order-bot/internal/report"
	"telegram-order-bot/internal/session"
)

// Sender is the part of *tgbotapi.BotAPI the handler uses.
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
}

type Handler struct {
	Bot      Sender
	Registry *registry.Registry
	History  *registry.Ledger
	Sessions *session.Store
	Catalog  *catalog.Catalog
	Renderer report.Renderer
	AdminID  int64
	Location *time.Location
	Clock    clockwork.Clock
	Log      *logrus.Logger

	// client id -> *sync.Mutex; one update per client at a time
	clientLocks sync.Map
}

// event is the per-update context passed down the handlers.
type event struct {
	chatID   int64
	userID   int64
	clientID string
	username string
	log      *logrus.Entry
}

func (h *Handler) newEvent(updateID int, chatID int64, from *tgbotapi.User) event {
	ev := event{
		chatID:   chatID,
		userID:   from.ID,
		clientID: strconv.FormatInt(from.ID, 10),
		username: from.UserName,
	}
	ev.log = h.Log.WithFields(logrus.Fields{
		"trace_id":  uuid.NewString(),
		"update_id": updateID,
		"chat_id":   chatID,
		"client_id": ev.clientID,
	})
	return ev
}

// HandleUpdate routes one inbound update. Safe for concurrent use: updates
// of different clients run in parallel, updates of one client run in order
// of arrival at the lock.
func (h *Handler) HandleUpdate(upd tgbotapi.Update) {
	switch {
	case upd.Message != nil:
		h.HandleMessage(upd.UpdateID, upd.Message)
	case upd.CallbackQuery != nil:
		h.HandleCallback(upd.UpdateID, upd.CallbackQuery)
	}
}

func (h *Handler) HandleMessage(updateID int, msg *tgbotapi.Message) {
	if msg.From == nil || msg.Chat == nil {
		return
	}
	ev := h.newEvent(updateID, msg.Chat.ID, msg.From)
	defer h.lockClient(ev.clientID)()

	if msg.IsCommand() {
		metrics.Updates.WithLabelValues("command").Inc()
		cmd := msg.Command()
		if isAdminCommand(cmd) {
			h.HandleAdminCommand(ev, cmd, msg.CommandArguments())
			return
		}
		if cmd == "start" {
			h.HandleStart(ev)
			return
		}
	} else {
		metrics.Updates.WithLabelValues("text").Inc()
	}
	h.HandleText(ev, msg.Text)
}

func (h *Handler) lockClient(clientID string) (unlock func()) {
	v, _ := h.clientLocks.LoadOrStore(clientID, &sync.Mutex{})
	mu := v.(*sync.Mutex)
	mu.Lock()
	return mu.Unlock
}

// contact loads or creates the profile of the sender.
func (h *Handler) contact(ev event) (models.ClientProfile, bool) {
	p, created, err := h.Registry.GetOrCreate(ev.clientID, ev.username)
	if !h.check(ev, err) {
		return models.ClientProfile{}, false
	}
	if created {
		ev.log.Info("👋 Новый клиент")
		h.observe()
	}
	return p, true
}

// check logs err. Persistence failures are tolerated: the in-memory state
// is already updated. Anything else is reported to the chat.
func (h *Handler) check(ev event, err error) bool {
	switch {
	case err == nil:
		return true
	case errors.Is(err, registry.ErrPersist):
		ev.log.WithError(err).Warn("⚠️ Изменение не сохранено на диск")
		return true
	default:
		ev.log.WithError(err).Error("❌ Ошибка обработки")
		h.send(ev.chatID, messages.InternalError)
		return false
	}
}

func (h *Handler) observe() {
	metrics.ObserveRegistry(h.Registry.Stats())
}

func (h *Handler) now() time.Time {
	return h.Clock.Now().In(h.Location)
}

func (h *Handler) today() string {
	return h.now().Format("2006-01-02")
}
