package telegram

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	app "coffee-diagnosis/internal/application"
	"coffee-diagnosis/internal/domain/entity"
	"coffee-diagnosis/internal/infrastructure/storage"
)

const (
	msgStart = `👋 ¡Hola! Soy el asistente de diagnóstico de cafetales.

📸 Envíeme una foto de la hoja y le diré si hay deficiencias nutricionales, plagas o enfermedades.

📋 Comandos:
/diagnose — nuevo diagnóstico
/list — diagnósticos guardados
/help — ayuda
/cancel — cancelar la operación actual`

	msgHelp = `ℹ️ Cómo usar el bot:

1️⃣ Envíe /diagnose
2️⃣ Responda: parcela, planta, técnico, tamaño de la muestra y observaciones
3️⃣ Envíe la foto de la hoja
4️⃣ Reciba el diagnóstico con recomendaciones

💡 Recomendaciones para la foto:
• Buena iluminación, sin sol directo
• Una sola hoja, enfocada
• Fondo uniforme

📋 Comandos:
/diagnose — nuevo diagnóstico
/list — diagnósticos guardados
/export <id> — reporte completo en texto
/delete <id> — eliminar un diagnóstico
/skip — omitir las observaciones
/cancel — cancelar la operación actual`

	msgCancelled        = "❌ Operación cancelada. Envíe /diagnose para un nuevo diagnóstico."
	msgStartDiagnosis   = "📸 Primero envíe /diagnose para registrar los datos de la planta."
	msgUnknownCommand   = "❓ Comando desconocido. Use /help para ver la ayuda."
	msgProcessing       = "⏳ Analizando la imagen..."
	msgBusy             = "⏳ Ya hay un análisis en curso. Espere el resultado."
	msgNothingToSkip    = "ℹ️ No hay nada que omitir en este paso."
	msgNoDiagnoses      = "📭 Aún no hay diagnósticos guardados."
	msgNeedID           = "⚠️ Indique el identificador, por ejemplo: /%s 3f2c…"
	msgDeleted          = "🗑 Diagnóstico eliminado."
	msgNotFound         = "🔍 No se encontró el diagnóstico."
	msgDownloadError    = "⚠️ No se pudo descargar la foto. Inténtelo de nuevo."
	msgModelUnavailable = "🛠 El modelo de análisis no está disponible en este momento. Inténtelo más tarde."
	msgInferenceFailed  = "⚠️ No se pudo analizar la imagen. Pruebe con otra foto más nítida y bien iluminada."
	msgEmptyResult      = "🤷 El modelo no encontró nada concluyente en la foto. Pruebe con otra imagen."
	msgInvalidRequest   = "⚠️ Faltan datos para el análisis. Envíe /diagnose y vuelva a empezar."
	msgInternalError    = "⚠️ Ocurrió un error inesperado. Inténtelo de nuevo."

	listLimit = 10
)

// Bot представляет Telegram-бота
type Bot struct {
	api       *tgbotapi.BotAPI
	users     *app.UserService
	diagnoses *app.DiagnosisService
}

// NewBot создаёт нового бота
func NewBot(token string, users *app.UserService, diagnoses *app.DiagnosisService) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}

	slog.Info("telegram bot authorized", "account", api.Self.UserName)

	return &Bot{
		api:       api,
		users:     users,
		diagnoses: diagnoses,
	}, nil
}

// Run запускает основной цикл обработки сообщений до отмены ctx
func (b *Bot) Run(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)
	defer b.api.StopReceivingUpdates()

	for {
		select {
		case <-ctx.Done():
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if update.Message == nil {
				continue
			}
			b.handleMessage(ctx, update.Message)
		}
	}
}

// handleMessage обрабатывает входящее сообщение
func (b *Bot) handleMessage(ctx context.Context, msg *tgbotapi.Message) {
	user, err := b.users.Get(ctx, msg.From.ID, msg.Chat.ID)
	if err != nil {
		slog.Error("get user", "user_id", msg.From.ID, "error", err)
		return
	}

	if msg.IsCommand() {
		b.handleCommand(ctx, msg, user)
		return
	}

	if len(msg.Photo) > 0 {
		b.handlePhoto(ctx, msg, user)
		return
	}

	switch {
	case user.Busy():
		b.sendMessage(msg.Chat.ID, msgBusy)
	case inDialog(user) || user.State == entity.StateAwaitingPhoto:
		reply := advanceDialog(user, msg.Text)
		b.saveUser(ctx, user)
		b.sendMessage(msg.Chat.ID, reply)
	default:
		b.sendMessage(msg.Chat.ID, msgStartDiagnosis)
	}
}

// handleCommand обрабатывает команды бота
func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message, user *entity.User) {
	switch msg.Command() {
	case "start":
		if !user.Busy() {
			user.Reset()
			b.saveUser(ctx, user)
		}
		b.sendMessage(msg.Chat.ID, msgStart)

	case "help":
		b.sendMessage(msg.Chat.ID, msgHelp)

	case "diagnose":
		if user.Busy() {
			b.sendMessage(msg.Chat.ID, msgBusy)
			return
		}
		if _, err := b.users.BeginDiagnosis(ctx, user.ID, user.ChatID); err != nil {
			slog.Error("begin diagnosis", "user_id", user.ID, "error", err)
			b.sendMessage(msg.Chat.ID, msgInternalError)
			return
		}
		b.sendMessage(msg.Chat.ID, msgAskParcel)

	case "skip":
		reply, ok := skipNotes(user)
		if !ok {
			b.sendMessage(msg.Chat.ID, msgNothingToSkip)
			return
		}
		b.saveUser(ctx, user)
		b.sendMessage(msg.Chat.ID, reply)

	case "list":
		items, err := b.diagnoses.List(ctx)
		if err != nil {
			slog.Error("list diagnoses", "error", err)
			b.sendMessage(msg.Chat.ID, msgInternalError)
			return
		}
		b.sendMessage(msg.Chat.ID, formatList(items, listLimit))

	case "delete":
		id := strings.TrimSpace(msg.CommandArguments())
		if id == "" {
			b.sendMessage(msg.Chat.ID, fmt.Sprintf(msgNeedID, "delete"))
			return
		}
		if err := b.diagnoses.Delete(ctx, id); err != nil {
			slog.Error("delete diagnosis", "id", id, "error", err)
			b.sendMessage(msg.Chat.ID, msgInternalError)
			return
		}
		b.sendMessage(msg.Chat.ID, msgDeleted)

	case "export":
		id := strings.TrimSpace(msg.CommandArguments())
		if id == "" {
			b.sendMessage(msg.Chat.ID, fmt.Sprintf(msgNeedID, "export"))
			return
		}
		b.sendReport(ctx, msg.Chat.ID, id)

	case "cancel":
		updated, err := b.users.Cancel(ctx, user.ID, user.ChatID)
		if err != nil {
			slog.Error("cancel dialog", "user_id", user.ID, "error", err)
			return
		}
		if updated.Busy() {
			b.sendMessage(msg.Chat.ID, msgBusy)
			return
		}
		b.sendMessage(msg.Chat.ID, msgCancelled)

	default:
		b.sendMessage(msg.Chat.ID, msgUnknownCommand)
	}
}

// handlePhoto запускает анализ. Пока идёт анализ, новые фото отклоняются.
func (b *Bot) handlePhoto(ctx context.Context, msg *tgbotapi.Message, user *entity.User) {
	if user.Busy() {
		b.sendMessage(msg.Chat.ID, msgBusy)
		return
	}
	if user.State != entity.StateAwaitingPhoto || user.Draft == nil {
		b.sendMessage(msg.Chat.ID, msgStartDiagnosis)
		return
	}

	// Берём файл с максимальным разрешением
	photo := msg.Photo[len(msg.Photo)-1]

	imageData, err := b.downloadFile(ctx, photo.FileID)
	if err != nil {
		slog.Error("download photo", "user_id", user.ID, "error", err)
		b.sendMessage(msg.Chat.ID, msgDownloadError)
		return
	}

	req := *user.Draft
	req.Image = imageData

	if _, err := b.users.SetState(ctx, user.ID, user.ChatID, entity.StateProcessing); err != nil {
		slog.Error("set processing state", "user_id", user.ID, "error", err)
		b.sendMessage(msg.Chat.ID, msgInternalError)
		return
	}
	b.sendMessage(msg.Chat.ID, msgProcessing)

	outcome := b.diagnoses.AnalyzeAsync(ctx, &req)
	go b.awaitAnalysis(ctx, user.ID, msg.Chat.ID, outcome)
}

// awaitAnalysis ждёт результат анализа, отвечает пользователю и возвращает его в главное меню.
func (b *Bot) awaitAnalysis(ctx context.Context, userID, chatID int64, outcome <-chan app.AnalysisOutcome) {
	res := <-outcome

	user, err := b.users.Get(context.WithoutCancel(ctx), userID, chatID)
	if err == nil {
		user.Reset()
		b.saveUser(context.WithoutCancel(ctx), user)
	}

	if res.Err != nil {
		if errors.Is(res.Err, context.Canceled) {
			return
		}
		slog.Warn("analysis failed", "user_id", userID, "error", res.Err)
		b.sendMessage(chatID, analysisErrorMessage(res.Err))
		return
	}

	b.sendMessage(chatID, formatDiagnosis(res.Diagnosis))
}

// analysisErrorMessage переводит ошибку анализа в сообщение для пользователя.
func analysisErrorMessage(err error) string {
	switch {
	case errors.Is(err, entity.ErrModelUnavailable):
		return msgModelUnavailable
	case errors.Is(err, entity.ErrInferenceFailed):
		return msgInferenceFailed
	case errors.Is(err, entity.ErrEmptyClassification):
		return msgEmptyResult
	case errors.Is(err, entity.ErrInvalidRequest):
		return msgInvalidRequest
	default:
		return msgInternalError
	}
}

// sendReport отправляет полный отчёт текстовым файлом
func (b *Bot) sendReport(ctx context.Context, chatID int64, id string) {
	text, err := b.diagnoses.Export(ctx, id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			b.sendMessage(chatID, msgNotFound)
			return
		}
		slog.Error("export diagnosis", "id", id, "error", err)
		b.sendMessage(chatID, msgInternalError)
		return
	}

	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{
		Name:  fmt.Sprintf("diagnostico-%s.txt", id),
		Bytes: []byte(text),
	})
	if _, err := b.api.Send(doc); err != nil {
		slog.Error("send report", "chat_id", chatID, "error", err)
	}
}

// downloadFile скачивает файл из Telegram
func (b *Bot) downloadFile(ctx context.Context, fileID string) ([]byte, error) {
	file, err := b.api.GetFile(tgbotapi.FileConfig{FileID: fileID})
	if err != nil {
		return nil, fmt.Errorf("get file: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, file.Link(b.api.Token), nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("download file: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("download file: unexpected status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read file: %w", err)
	}

	return data, nil
}

func (b *Bot) saveUser(ctx context.Context, user *entity.User) {
	if err := b.users.Save(ctx, user); err != nil {
		slog.Error("save user", "user_id", user.ID, "error", err)
	}
}

// sendMessage отправляет текстовое сообщение
func (b *Bot) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		slog.Error("send message", "chat_id", chatID, "error", err)
	}
}
