package service

import (
	"time"

	"auction-management-api/internal/entity"
	"auction-management-api/internal/validation"
)

func mapParticipant(p *entity.Participant) *entity.ParticipantOutputModel {
	return &entity.ParticipantOutputModel{
		Id:             p.Id.String(),
		IdentityNumber: p.IdentityNumber,
		Name:           p.Name,
		Email:          p.Email,
		BirthDate:      p.BirthDate.Format(validation.BirthDateLayout),
		RegisteredAt:   p.RegisteredAt.Format(time.RFC3339),
	}
}

func mapParticipants(participants []entity.Participant) []entity.ParticipantOutputModel {
	s := make([]entity.ParticipantOutputModel, 0)
	for _, p := range participants {
		s = append(s, *mapParticipant(&p))
	}

	return s
}

func mapAuction(a *entity.Auction) *entity.AuctionOutputModel {
	out := &entity.AuctionOutputModel{
		Id:         a.Id.String(),
		Name:       a.Name,
		MinimumBid: a.MinimumBid,
		StartTime:  a.StartTime.Format(time.RFC3339),
		EndTime:    a.EndTime.Format(time.RFC3339),
		Status:     a.Status.String(),
		CreatedAt:  a.CreatedAt.Format(time.RFC3339),
	}
	if a.WinnerId != nil {
		out.WinnerId = a.WinnerId.String()
	}

	return out
}

func mapAuctions(auctions []entity.Auction) []entity.AuctionOutputModel {
	s := make([]entity.AuctionOutputModel, 0)
	for _, a := range auctions {
		s = append(s, *mapAuction(&a))
	}

	return s
}

func mapBid(b *entity.Bid) *entity.BidOutputModel {
	return &entity.BidOutputModel{
		Id:            b.Id.String(),
		Amount:        b.Amount,
		PlacedAt:      b.PlacedAt.Format(time.RFC3339),
		AuctionId:     b.AuctionId.String(),
		ParticipantId: b.ParticipantId.String(),
	}
}

func mapBids(bids []entity.Bid) []entity.BidOutputModel {
	s := make([]entity.BidOutputModel, 0)
	for _, b := range bids {
		s = append(s, *mapBid(&b))
	}

	return s
}
