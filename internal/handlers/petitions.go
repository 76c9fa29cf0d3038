package handlers

import (
	"net/http"

	"moviestore/internal/middleware"
	"moviestore/internal/models"
	"moviestore/internal/services"
)

// PetitionHandler handles petition listing, creation and voting
type PetitionHandler struct {
	petitions services.PetitionServiceInterface
}

// NewPetitionHandler creates a new petition handler
func NewPetitionHandler(petitions services.PetitionServiceInterface) *PetitionHandler {
	return &PetitionHandler{petitions: petitions}
}

type voteResponse struct {
	*models.VoteResult
	Tally models.Tally `json:"tally"`
}

// currentUserID returns the logged in user's id, or 0 for anonymous requests
func currentUserID(r *http.Request) int {
	if user := middleware.GetUserFromContext(r.Context()); user != nil {
		return user.ID
	}
	return 0
}

// List returns all petitions, newest first, with their tallies
func (h *PetitionHandler) List(w http.ResponseWriter, r *http.Request) {
	petitions, err := h.petitions.ListPetitions(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	if petitions == nil {
		petitions = []*models.PetitionWithTally{}
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{"petitions": petitions})
}

// Create opens a new petition on behalf of the current user
func (h *PetitionHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.PetitionCreateRequest
	if err := decodeBody(r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	req.CreatedBy = currentUserID(r)

	petition, err := h.petitions.CreatePetition(r.Context(), &req)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusCreated, petition)
}

// Get returns a petition with its tally, including the caller's vote when logged in
func (h *PetitionHandler) Get(w http.ResponseWriter, r *http.Request) {
	petitionID, ok := urlID(r, "id")
	if !ok {
		writeError(w, r, models.ErrPetitionNotFound)
		return
	}

	petition, err := h.petitions.GetPetition(r.Context(), petitionID, currentUserID(r))
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, petition)
}

// Vote records the "vote" field (yes or no). Other values are ignored and
// reported with recorded=false.
func (h *PetitionHandler) Vote(w http.ResponseWriter, r *http.Request) {
	petitionID, ok := urlID(r, "id")
	if !ok {
		writeError(w, r, models.ErrPetitionNotFound)
		return
	}

	fields, err := readFields(r, "vote")
	if err != nil {
		writeError(w, r, err)
		return
	}

	userID := currentUserID(r)
	result, err := h.petitions.Vote(r.Context(), petitionID, userID, fields["vote"])
	if err != nil {
		writeError(w, r, err)
		return
	}

	tally, err := h.petitions.Tally(r.Context(), petitionID, userID)
	if err != nil {
		writeError(w, r, err)
		return
	}

	writeJSON(w, http.StatusOK, voteResponse{VoteResult: result, Tally: tally})
}
