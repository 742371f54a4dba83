package planner

import (
	"net/http"

	"tourguide/errs"
	"tourguide/utils"

	"github.com/julienschmidt/httprouter"
)

const (
	MaxDays     = 7
	slotsPerDay = 3
)

var placesByInterest = map[string][]string{
	"Heritage":  {"Rajwada Palace", "Lal Bagh Palace", "Krishnapura Chhatri"},
	"Food":      {"Sarafa Bazaar", "Chhappan Dukan", "Poha Jalebi"},
	"Nature":    {"Regional Park", "Patalpani Waterfall", "Ralamandal"},
	"Shopping":  {"Treasure Island Mall", "MT Cloth Market"},
	"Spiritual": {"Khajrana Ganesh Mandir", "Annapurna Temple"},
}

// Interests lists the accepted interest names.
func Interests() []string {
	return []string{"Heritage", "Food", "Nature", "Shopping", "Spiritual"}
}

var errDays = errs.E(errs.ErrInvalidArgument, "days must be between 1 and 7")

// Generate fills each day with three consecutive places taken round-robin from
// the pool of the selected interests, in request order. Unknown interests are
// skipped; an empty pool yields an empty plan.
func Generate(days int, interests []string) ([][]string, error) {
	if days < 1 || days > MaxDays {
		return nil, errDays
	}
	var pool []string
	for _, i := range interests {
		pool = append(pool, placesByInterest[i]...)
	}
	plan := [][]string{}
	if len(pool) == 0 {
		return plan, nil
	}

	idx := 0
	for d := 0; d < days; d++ {
		day := make([]string, 0, slotsPerDay)
		for s := 0; s < slotsPerDay; s++ {
			day = append(day, pool[idx])
			idx = (idx + 1) % len(pool)
		}
		plan = append(plan, day)
	}
	return plan, nil
}

type generateRequest struct {
	Days      int      `json:"days"`
	Budget    float64  `json:"budget"`
	Interests []string `json:"interests"`
}

// POST /api/planner/generate
func GeneratePlan(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
	var req generateRequest
	if err := utils.DecodeJSON(r, &req); err != nil {
		utils.RespondWithAppError(w, err, "Failed to generate plan")
		return
	}
	if req.Budget < 0 {
		utils.RespondWithAppError(w, errs.E(errs.ErrInvalidArgument, "budget must not be negative"), "Failed to generate plan")
		return
	}
	plan, err := Generate(req.Days, req.Interests)
	if err != nil {
		utils.RespondWithAppError(w, err, "Failed to generate plan")
		return
	}
	utils.RespondWithJSON(w, http.StatusOK, utils.M{
		"days":   req.Days,
		"budget": req.Budget,
		"plan":   plan,
	})
}

// GET /api/planner/interests
func ListInterests(w http.ResponseWriter, _ *http.Request, _ httprouter.Params) {
	utils.RespondWithJSON(w, http.StatusOK, utils.M{"interests": Interests()})
}
