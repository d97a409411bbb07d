package entity

// UserState состояние пользователя в диалоге
type UserState string

const (
	StateMainMenu            UserState = "main_menu"            // В главном меню
	StateAwaitingParcel      UserState = "awaiting_parcel"      // Ожидание названия участка
	StateAwaitingPlantNumber UserState = "awaiting_plant"       // Ожидание номера растения
	StateAwaitingTechnician  UserState = "awaiting_technician"  // Ожидание имени техника
	StateAwaitingTotalPlants UserState = "awaiting_total"       // Ожидание размера выборки
	StateAwaitingNotes       UserState = "awaiting_notes"       // Ожидание заметок
	StateAwaitingPhoto       UserState = "awaiting_photo"       // Ожидание фото растения
	StateProcessing          UserState = "processing"           // Обработка изображения
)

// User представляет пользователя бота
type User struct {
	ID     int64                 // Telegram User ID
	ChatID int64                 // Telegram Chat ID
	State  UserState             // Текущее состояние пользователя
	Draft  *PhotoAnalysisRequest // Черновик запроса, собираемый в диалоге
}

// NewUser создаёт нового пользователя с начальным состоянием
func NewUser(userID, chatID int64) *User {
	return &User{
		ID:     userID,
		ChatID: chatID,
		State:  StateMainMenu,
	}
}

// SetState обновляет состояние пользователя
func (u *User) SetState(state UserState) {
	u.State = state
}

// BeginDraft начинает сбор нового запроса
func (u *User) BeginDraft() {
	u.Draft = &PhotoAnalysisRequest{}
	u.State = StateAwaitingParcel
}

// Reset сбрасывает черновик и возвращает в главное меню
func (u *User) Reset() {
	u.Draft = nil
	u.State = StateMainMenu
}

// Busy сообщает, идёт ли у пользователя анализ
func (u *User) Busy() bool {
	return u.State == StateProcessing
}
