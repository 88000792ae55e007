package domain

import (
	"math"
	"strconv"
	"time"
)

type User struct {
	ID        string
	Email     string
	CreatedAt time.Time
}

// Profile - документ с балансом поисков пользователя
type Profile struct {
	UserID            string    `json:"userId"`
	Email             string    `json:"email"`
	Plan              string    `json:"plan"`
	FreeSearches      int       `json:"freeSearches"`
	PurchasedSearches int       `json:"purchasedSearches"`
	UsedSearches      int       `json:"usedSearches"`
	UpdatedAt         time.Time `json:"updatedAt"`
}

const PlanFree = "free"

// ComputeRemaining возвращает NaN если профиля нет (не загружен или юзер не вошел)
func ComputeRemaining(p *Profile) float64 {
	if p == nil {
		return math.NaN()
	}
	return float64(p.FreeSearches + p.PurchasedSearches - p.UsedSearches)
}

func RemainingIsUsable(remaining float64) bool {
	if math.IsNaN(remaining) || math.IsInf(remaining, 0) {
		return false
	}
	return remaining > 0
}

func FormatRemaining(remaining float64) string {
	if math.IsNaN(remaining) || math.IsInf(remaining, 0) {
		return "—"
	}
	return strconv.FormatInt(int64(remaining), 10)
}
