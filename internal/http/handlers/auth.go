package handlers

import (
	"net/http"
	"strings"
	"time"

	"billino/internal/domain"
	"billino/internal/repositories"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"golang.org/x/crypto/bcrypt"
)

type AuthHandler struct {
	Secret []byte
	Users  repositories.UserRepository
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// POST /api/auth/login
func (h AuthHandler) Login(c *gin.Context) {
	var req loginRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	user, hash, err := h.Users.GetByLogin(strings.TrimSpace(req.Email))
	if err != nil {
		if domain.IsNotFound(err) {
			respondDetail(c, http.StatusUnauthorized, "wrong email/username or password")
			return
		}
		RespondError(c, err)
		return
	}

	if err := bcrypt.CompareHashAndPassword([]byte(hash), []byte(req.Password)); err != nil {
		respondDetail(c, http.StatusUnauthorized, "wrong email/username or password")
		return
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.MapClaims{
		"user_id": user.ID,
		"role":    user.Role,
		"exp":     time.Now().Add(24 * time.Hour).Unix(),
	})
	signed, err := token.SignedString(h.Secret)
	if err != nil {
		RespondError(c, domain.InternalError{Msg: "sign token", Err: err})
		return
	}

	c.JSON(http.StatusOK, gin.H{"token": signed, "user": user})
}

type registerRequest struct {
	Name     string `json:"name"`
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// POST /api/auth/register
func (h AuthHandler) Register(c *gin.Context) {
	var req registerRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	var fields []domain.FieldError
	if strings.TrimSpace(req.Username) == "" {
		fields = append(fields, domain.FieldError{Field: "username", Msg: "required"})
	}
	if strings.TrimSpace(req.Email) == "" {
		fields = append(fields, domain.FieldError{Field: "email", Msg: "required"})
	}
	if len(req.Password) < 8 {
		fields = append(fields, domain.FieldError{Field: "password", Msg: "at least 8 characters"})
	}
	if len(fields) > 0 {
		RespondError(c, domain.ValidationError{Fields: fields})
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		RespondError(c, domain.InternalError{Msg: "hash password", Err: err})
		return
	}

	user, err := h.Users.Create(strings.TrimSpace(req.Name), strings.TrimSpace(req.Username),
		strings.TrimSpace(req.Email), string(hash), "staff")
	if err != nil {
		RespondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"user": user})
}
