package server

import (
	"encoding/json"
	"net/http"

	"github.com/Mystic-Slice/artist-recommendation-backend/models"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

type signupRequest struct {
	Username            string `json:"username"`
	Password            string `json:"password"`
	Name                string `json:"name"`
	Age                 int    `json:"age"`
	Language            string `json:"language"`
	WorkingProfessional bool   `json:"working_professional"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

func (s *Server) handleSignup(w http.ResponseWriter, r *http.Request) {
	var req signupRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondJSON(w, http.StatusBadRequest, envelope{Success: false, Message: "invalid request body"})
		return
	}
	if req.Username == "" || req.Password == "" {
		s.respondJSON(w, http.StatusBadRequest, envelope{Success: false, Message: "username and password are required"})
		return
	}

	existing, err := s.users.FindByUsername(req.Username)
	if err != nil {
		s.logger.Error("signup lookup failed", zap.Error(err))
		s.respondJSON(w, http.StatusInternalServerError, envelope{Success: false, Message: "internal error"})
		return
	}
	if existing != nil {
		s.respondJSON(w, http.StatusBadRequest, envelope{Success: false, Message: "User already exists"})
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		s.logger.Error("password hashing failed", zap.Error(err))
		s.respondJSON(w, http.StatusInternalServerError, envelope{Success: false, Message: "internal error"})
		return
	}

	user := &models.User{
		Username:            req.Username,
		Name:                req.Name,
		Age:                 req.Age,
		Language:            req.Language,
		Password:            string(hashed),
		WorkingProfessional: req.WorkingProfessional,
	}
	if err := s.users.Create(user); err != nil {
		s.logger.Error("signup create failed", zap.Error(err))
		s.respondJSON(w, http.StatusInternalServerError, envelope{Success: false, Message: "internal error"})
		return
	}

	s.respondJSON(w, http.StatusCreated, envelope{Success: true, Message: "Signup successful"})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.respondJSON(w, http.StatusBadRequest, envelope{Success: false, Message: "invalid request body"})
		return
	}

	user, err := s.users.FindByUsername(req.Username)
	if err != nil {
		s.logger.Error("login lookup failed", zap.Error(err))
		s.respondJSON(w, http.StatusInternalServerError, envelope{Success: false, Message: "internal error"})
		return
	}
	if user == nil || bcrypt.CompareHashAndPassword([]byte(user.Password), []byte(req.Password)) != nil {
		s.respondJSON(w, http.StatusUnauthorized, envelope{Success: false, Message: "Invalid credentials"})
		return
	}

	s.respondJSON(w, http.StatusOK, envelope{Success: true, Message: "Login successful"})
}
