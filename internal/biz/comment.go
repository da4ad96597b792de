package biz

import (
	"context"

	"oublog-audit/internal/domain"
	"oublog-audit/internal/domain/valueobject"

	"github.com/go-kratos/kratos/v2/log"
)

// CommentUsecase deletes blog comments and raises their audit events.
type CommentUsecase struct {
	repo domain.CommentRepository
	uow  domain.UnitOfWork
	log  *log.Helper
}

// NewCommentUsecase creates a new CommentUsecase.
func NewCommentUsecase(repo domain.CommentRepository, uow domain.UnitOfWork, logger log.Logger) *CommentUsecase {
	return &CommentUsecase{
		repo: repo,
		uow:  uow,
		log:  log.NewHelper(logger),
	}
}

// DeleteComment marks the comment deleted by actorID. The deletion and its
// CommentDeleted event commit together. If the event violates its contract
// nothing is written and the *event.ContractViolation is returned.
func (uc *CommentUsecase) DeleteComment(ctx context.Context, commentID, actorID int64) (*domain.Comment, error) {
	id, err := valueobject.NewID(commentID)
	if err != nil {
		return nil, err
	}
	actor, err := valueobject.NewID(actorID)
	if err != nil {
		return nil, err
	}

	c, err := uc.repo.FindByID(ctx, id.Int64())
	if err != nil {
		return nil, err
	}
	if c.IsDeleted() {
		return nil, domain.ErrCommentAlreadyDeleted
	}

	err = uc.uow.Do(ctx, func(ctx context.Context) error {
		if err := c.Delete(actor.Int64()); err != nil {
			return err
		}
		return uc.repo.SaveDeletion(ctx, c)
	}, c)
	if err != nil {
		uc.log.WithContext(ctx).Warnf("DeleteComment %d by %d failed: %v", commentID, actorID, err)
		return nil, err
	}

	uc.log.WithContext(ctx).Infof("DeleteComment: comment %d deleted by user %d", commentID, actorID)
	return c, nil
}
