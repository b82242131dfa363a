package service

import (
	"context"

	"github.com/fitbody/fitbody-backend/internal/models"
	"github.com/fitbody/fitbody-backend/internal/repository"
	"github.com/fitbody/fitbody-backend/pkg/email"
	"go.uber.org/zap"
)

type TicketService struct {
	ticketRepo   *repository.SupportTicketRepository
	emailService *email.EmailService
	logger       *zap.Logger
}

func NewTicketService(ticketRepo *repository.SupportTicketRepository, emailService *email.EmailService, logger *zap.Logger) *TicketService {
	return &TicketService{
		ticketRepo:   ticketRepo,
		emailService: emailService,
		logger:       logger,
	}
}

func (s *TicketService) CreateTicket(ctx context.Context, userID uint, userEmail string, req models.CreateTicketRequest) (*models.SupportTicket, error) {
	ticket := &models.SupportTicket{
		UserID:  userID,
		Email:   userEmail,
		Subject: req.Subject,
		Message: req.Message,
		Status:  models.TicketStatusOpen,
	}
	if err := s.ticketRepo.Create(ctx, ticket); err != nil {
		return nil, err
	}
	return ticket, nil
}

func (s *TicketService) GetUserTickets(ctx context.Context, userID uint) ([]models.SupportTicket, error) {
	return s.ticketRepo.GetByUserID(ctx, userID)
}

func (s *TicketService) GetAllTickets(ctx context.Context) ([]models.SupportTicket, error) {
	return s.ticketRepo.GetAll(ctx)
}

// ReplyToTicket records an admin reply and emails it to the reporter.
// The email is best-effort: a send failure does not undo the reply.
func (s *TicketService) ReplyToTicket(ctx context.Context, ticketID uint, req models.ReplyTicketRequest) (*models.SupportTicket, error) {
	ticket, err := s.ticketRepo.GetByID(ctx, ticketID)
	if err != nil {
		return nil, err
	}

	ticket.Reply = req.Reply
	ticket.Status = models.TicketStatusAnswered
	if req.Status != "" {
		ticket.Status = req.Status
	}

	if err := s.ticketRepo.Update(ctx, ticket); err != nil {
		return nil, err
	}

	go func() {
		if err := s.emailService.SendTicketReplyEmail(ticket.Email, ticket.Subject, ticket.Reply); err != nil {
			s.logger.Warn("ticket reply email failed",
				zap.Uint("ticket_id", ticket.ID),
				zap.Error(err),
			)
		}
	}()

	return ticket, nil
}
