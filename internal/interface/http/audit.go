package handlers

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"github.com/alnnovate/academy/internal/domain/entity"
	repo "github.com/alnnovate/academy/internal/domain/repository"
	"github.com/alnnovate/academy/internal/interface/middleware"
	"github.com/alnnovate/academy/pkg/helpers"
)

// Auditor appends security relevant actions to the audit log. A nil Repo
// disables auditing; write failures are logged and never fail the request.
type Auditor struct {
	Repo   repo.AuditRepository
	Logger *logrus.Logger
}

func NewAuditor(r repo.AuditRepository, logger *logrus.Logger) *Auditor {
	return &Auditor{Repo: r, Logger: logger}
}

func (a *Auditor) Record(c *gin.Context, accountID, email, action string, metadata map[string]any) {
	if a == nil || a.Repo == nil {
		return
	}
	l := &entity.AuditLog{
		AccountID: accountID,
		Email:     email,
		Action:    action,
		IP:        middleware.ClientIP(c),
		UserAgent: c.GetHeader("User-Agent"),
		Metadata:  metadata,
		CreatedAt: time.Now().UTC(),
	}
	if err := a.Repo.Insert(c.Request.Context(), l); err != nil && a.Logger != nil {
		helpers.LogError(a.Logger, "audit insert failed", err, logrus.Fields{"action": action})
	}
}
