package webhook

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/jinzhu/copier"
	perrors "github.com/tendant/simple-provision/pkg/errors"
	"github.com/tendant/simple-provision/pkg/provision"
)

// Handle serves the payment-confirmation webhook
type Handle struct {
	service *provision.Service
}

func NewHandle(service *provision.Service) *Handle {
	return &Handle{
		service: service,
	}
}

// ProvisionRequest is the normalized webhook body
type ProvisionRequest struct {
	Email   string `json:"email"`
	Product string `json:"product"`
	Name    string `json:"name"`
}

// SuccessResponse is returned with 201 (new user) or 200 (existing user)
type SuccessResponse struct {
	Success     bool     `json:"success"`
	Message     string   `json:"message"`
	UserID      string   `json:"user_id"`
	Email       string   `json:"email"`
	AccessLevel int      `json:"access_level"`
	Products    []string `json:"products"`
	EmailSent   bool     `json:"email_sent"`
}

// ErrorResponse is returned on any failure
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   string `json:"error"`
}

// Routes mounts the webhook endpoints
func Routes(r chi.Router, h *Handle, secret string) {
	r.Group(func(r chi.Router) {
		r.Use(SecretVerifier(secret))
		r.Post("/provision", h.Provision)
	})
}

// Provision handles one payment-confirmation request
// (POST /provision)
func (h *Handle) Provision(w http.ResponseWriter, r *http.Request) {
	request, err := parseRequest(r)
	if err != nil {
		renderError(w, r, err)
		return
	}

	var params provision.Params
	copier.Copy(&params, &request)

	result, err := h.service.Provision(r.Context(), params)
	if err != nil {
		slog.Error("Provisioning failed", "email", request.Email, "product", request.Product, "err", err)
		renderError(w, r, err)
		return
	}

	status := http.StatusOK
	message := "user updated"
	if result.Created {
		status = http.StatusCreated
		message = "user created"
	}

	render.Status(r, status)
	render.JSON(w, r, SuccessResponse{
		Success:     true,
		Message:     message,
		UserID:      result.UserID.String(),
		Email:       result.Email,
		AccessLevel: int(result.AccessLevel),
		Products:    result.Products,
		EmailSent:   result.EmailSent,
	})
}

// parseRequest decodes the body by content type: JSON object or
// form-urlencoded. Pure decode, no side effects.
func parseRequest(r *http.Request) (ProvisionRequest, error) {
	var request ProvisionRequest

	contentType := r.Header.Get("Content-Type")
	if strings.HasPrefix(contentType, "application/json") {
		if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
			return ProvisionRequest{}, perrors.InvalidInput("body", "malformed JSON")
		}
	} else {
		if err := r.ParseForm(); err != nil {
			return ProvisionRequest{}, perrors.InvalidInput("body", "malformed form data")
		}
		request.Email = r.PostFormValue("email")
		request.Product = r.PostFormValue("product")
		request.Name = r.PostFormValue("name")
	}

	if request.Email == "" {
		return ProvisionRequest{}, perrors.InvalidInput("email", "email is required")
	}
	if request.Product == "" {
		return ProvisionRequest{}, perrors.InvalidInput("product", "product is required")
	}
	return request, nil
}

func renderError(w http.ResponseWriter, r *http.Request, err error) {
	code := perrors.GetCode(err)
	status := perrors.MapErrorCodeToHTTPStatus(code)

	// Never leak provider/store internals to the caller
	message := "internal error"
	if status != http.StatusInternalServerError {
		var structured *perrors.Error
		if errors.As(err, &structured) {
			message = structured.Message
		} else {
			message = err.Error()
		}
	}

	render.Status(r, status)
	render.JSON(w, r, ErrorResponse{Success: false, Error: message})
}
