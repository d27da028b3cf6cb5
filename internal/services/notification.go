package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/gamedistrict/storefront/internal/models"
	"github.com/gamedistrict/storefront/pkg/sendGrid"
)

type NotificationService interface {
	SendOrderConfirmation(ctx context.Context, user *models.User, order *models.Order) error
}

type notificationService struct {
	emailService sendGrid.EmailService
}

func NewNotificationService(emailService sendGrid.EmailService) NotificationService {
	return &notificationService{emailService: emailService}
}

// SendOrderConfirmation emails the order summary. Delivery is best effort:
// the order is already committed when this runs.
func (n *notificationService) SendOrderConfirmation(ctx context.Context, user *models.User, order *models.Order) error {

	var sb strings.Builder

	fmt.Fprintf(&sb, "Hi %s,\n\nThanks for your order %s.\n\n", user.Name, order.ID)

	for _, line := range order.Lines {

		label := line.Name
		if line.Variant != "" {
			label = fmt.Sprintf("%s (%s)", line.Name, line.Variant)
		}

		fmt.Fprintf(&sb, "  %d x %s - %d\n", line.Quantity, label, line.Subtotal)
	}

	fmt.Fprintf(&sb, "\nTotal: %d\n", order.TotalPrice)

	req := &models.EmailNotificationRequest{
		To:      user.Email,
		Subject: fmt.Sprintf("Order confirmation %s", order.ID),
		Content: sb.String(),
	}

	return n.emailService.Send(ctx, req)
}
