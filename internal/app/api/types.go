package api

import (
	"time"

	"habitpet/internal/app/user"
)

// Page is the paged list shape used by list endpoints.
type Page[T any] struct {
	Content       []T  `json:"content"`
	TotalElements int  `json:"totalElements"`
	TotalPages    int  `json:"totalPages"`
	Size          int  `json:"size"`
	Number        int  `json:"number"`
	First         bool `json:"first"`
	Last          bool `json:"last"`
}

// NewPage slices items into the page-th page of the given size.
func NewPage[T any](items []T, page, size int) Page[T] {
	total := len(items)
	totalPages := 0
	if size > 0 {
		totalPages = (total + size - 1) / size
	}

	start := min(page*size, total)
	end := min(start+size, total)

	content := make([]T, end-start)
	copy(content, items[start:end])

	return Page[T]{
		Content:       content,
		TotalElements: total,
		TotalPages:    totalPages,
		Size:          size,
		Number:        page,
		First:         page == 0,
		Last:          page >= totalPages-1,
	}
}

// --- Session ---

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type SignUpRequest struct {
	Email       string `json:"email"`
	Password    string `json:"password"`
	Name        string `json:"name"`
	NickName    string `json:"nickName"`
	PhoneNumber string `json:"phoneNumber"`
}

// Credentials returns the login request matching this signup.
func (r SignUpRequest) Credentials() LoginRequest {
	return LoginRequest{Email: r.Email, Password: r.Password}
}

type GoogleLoginRequest struct {
	IDToken     string `json:"idToken"`
	AccessToken string `json:"accessToken"`
}

// AuthResponse is returned by every successful sign-in.
type AuthResponse struct {
	ID           int64  `json:"id"`
	Email        string `json:"email"`
	Name         string `json:"name"`
	Role         string `json:"role"`
	AccessToken  string `json:"accessToken"`
	RefreshToken string `json:"refreshToken"`
}

func (a AuthResponse) Identity() user.Identity {
	return user.Identity{ID: a.ID, Email: a.Email, Name: a.Name, Role: a.Role}
}

// --- Profile ---

// Profile is the account record shown on the profile screen.
type Profile struct {
	ID          int64     `json:"id"`
	Email       string    `json:"email"`
	Name        string    `json:"name"`
	NickName    string    `json:"nickName"`
	PhoneNumber string    `json:"phoneNumber"`
	Role        string    `json:"role"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Identity returns the session identity described by the profile.
func (p Profile) Identity() user.Identity {
	return user.Identity{ID: p.ID, Email: p.Email, Name: p.Name, NickName: p.NickName, Role: p.Role}
}

type ProfileNicknameRequest struct {
	NickName string `json:"nickName"`
}

type PasswordUpdateRequest struct {
	CurrentPassword string `json:"currentPassword"`
	NewPassword     string `json:"newPassword"`
	ConfirmPassword string `json:"confirmPassword"`
}

// --- Economy ---

type GameData struct {
	ID         int64     `json:"id"`
	UserID     int64     `json:"userId"`
	Coins      int       `json:"coins"`
	Level      int       `json:"level"`
	Experience int       `json:"experience"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// UpdateGameDataRequest sets absolute values; nil fields are left unchanged.
type UpdateGameDataRequest struct {
	Coins      *int `json:"coins,omitempty"`
	Level      *int `json:"level,omitempty"`
	Experience *int `json:"experience,omitempty"`
}

type LevelUpResult struct {
	LeveledUp  bool `json:"leveledUp"`
	NewLevel   int  `json:"newLevel"`
	Experience int  `json:"experience"`
}

// Reward reasons.
const (
	ReasonHabitCompletion = "habit_completion"
	ReasonStreakBonus     = "streak_bonus"
	ReasonDailyLogin      = "daily_login"
)

type Reward struct {
	ID               int64     `json:"id"`
	HabitID          int64     `json:"habitId,omitempty"`
	UserID           int64     `json:"userId"`
	CoinsEarned      int       `json:"coinsEarned"`
	ExperienceEarned int       `json:"experienceEarned"`
	Reason           string    `json:"reason"`
	CreatedAt        time.Time `json:"createdAt"`
}

// --- Characters ---

type Rarity string

const (
	RarityCommon    Rarity = "COMMON"
	RarityRare      Rarity = "RARE"
	RarityEpic      Rarity = "EPIC"
	RarityLegendary Rarity = "LEGENDARY"
)

// Character is a shop definition. IsOwned is computed per account.
type Character struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	Rarity      Rarity `json:"rarity"`
	Price       int    `json:"price"`
	ImageURL    string `json:"imageUrl"`
	IsOwned     bool   `json:"isOwned"`
}

// UserCharacter is a character owned by the account.
type UserCharacter struct {
	ID          int64      `json:"id"`
	UserID      int64      `json:"userId"`
	CharacterID int64      `json:"characterId"`
	Nickname    string     `json:"nickname,omitempty"`
	Level       int        `json:"level"`
	Experience  int        `json:"experience"`
	Happiness   int        `json:"happiness"`
	IsActive    bool       `json:"isActive"`
	Character   *Character `json:"character,omitempty"`
}

type ActivationRequest struct {
	IsActive bool `json:"isActive"`
}

type NicknameRequest struct {
	Nickname string `json:"nickname"`
}

// Food types and play activities.
const (
	FoodBasic   = "basic"
	FoodPremium = "premium"

	ActivityPet  = "pet"
	ActivityPlay = "play"
	ActivityWalk = "walk"
)

type FeedRequest struct {
	FoodType string `json:"foodType"`
}

type PlayRequest struct {
	ActivityType string `json:"activityType"`
}

// --- Room ---

type ItemCategory string

const (
	CategoryFurniture  ItemCategory = "FURNITURE"
	CategoryPlayground ItemCategory = "PLAYGROUND"
	CategoryDecoration ItemCategory = "DECORATION"
	CategoryBackground ItemCategory = "BACKGROUND"
	CategoryProp       ItemCategory = "PROP"
)

// RoomItem is an item definition from the shop catalogue.
type RoomItem struct {
	ID          int64        `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Category    ItemCategory `json:"category"`
	Price       int          `json:"price"`
	ImageURL    string       `json:"imageUrl"`
	Width       float64      `json:"width"`
	Height      float64      `json:"height"`
	IsOwned     bool         `json:"isOwned"`
}

// UserItem is an item owned by the account.
type UserItem struct {
	ID       int64        `json:"id"`
	ItemID   int64        `json:"itemId"`
	ItemName string       `json:"itemName"`
	Category ItemCategory `json:"category"`
	ImageURL string       `json:"imageUrl"`
	IsPlaced bool         `json:"isPlaced"`
}

type BuyItemRequest struct {
	ItemID int64 `json:"itemId"`
}

type Room struct {
	ID     int64        `json:"id"`
	UserID int64        `json:"userId"`
	Items  []PlacedItem `json:"items"`
}

// Find returns the placed item with the given ID.
func (r Room) Find(placedItemID int64) (PlacedItem, bool) {
	for _, it := range r.Items {
		if it.ID == placedItemID {
			return it, true
		}
	}
	return PlacedItem{}, false
}

// PlacedItem is an item instance positioned in a room.
type PlacedItem struct {
	ID       int64   `json:"id"`
	ItemID   int64   `json:"itemId"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Rotation float64 `json:"rotation"`
}

type PlaceItemRequest struct {
	ItemID   int64   `json:"itemId"`
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Rotation float64 `json:"rotation"`
}

type MoveItemRequest struct {
	X        float64 `json:"x"`
	Y        float64 `json:"y"`
	Rotation float64 `json:"rotation"`
}

// --- Habits ---

type Habit struct {
	ID             int64    `json:"id"`
	UserID         int64    `json:"userId"`
	Title          string   `json:"title"`
	Description    string   `json:"description,omitempty"`
	StartAt        string   `json:"startAt"`
	EndAt          string   `json:"endAt,omitempty"`
	RepeatDays     []string `json:"repeatDays"`
	IsAlarmEnabled bool     `json:"isAlarmEnabled"`
	ReminderTime   string   `json:"reminderTime,omitempty"`
}

type HabitRequest struct {
	Title          string   `json:"title"`
	Description    string   `json:"description,omitempty"`
	StartAt        string   `json:"startAt"`
	RepeatDays     []string `json:"repeatDays"`
	IsAlarmEnabled bool     `json:"isAlarmEnabled"`
	ReminderTime   string   `json:"reminderTime,omitempty"`
}

type HabitCompletion struct {
	ID          int64     `json:"id"`
	HabitID     int64     `json:"habitId"`
	CompletedAt time.Time `json:"completedAt"`
	Notes       string    `json:"notes,omitempty"`
}

type CompleteHabitRequest struct {
	Notes string `json:"notes,omitempty"`
}
