package app

import (
	"context"
	"fmt"
	"strings"

	"github.com/defensoria/expedientes/internal/domain"
)

// ListNotifications returns the notification log, newest first.
func (s *Service) ListNotifications(ctx context.Context) ([]domain.ActuacionNotification, error) {
	return s.repo.ListNotifications(ctx)
}

// UnreadNotificationCount counts unread notification entries.
func (s *Service) UnreadNotificationCount(ctx context.Context) (int, error) {
	entries, err := s.repo.ListNotifications(ctx)
	if err != nil {
		return 0, err
	}
	count := 0
	for _, n := range entries {
		if !n.Read {
			count++
		}
	}
	return count, nil
}

// MarkNotificationRead flags one entry as read.
func (s *Service) MarkNotificationRead(ctx context.Context, id string) error {
	id = strings.TrimSpace(id)
	entries, err := s.repo.ListNotifications(ctx)
	if err != nil {
		return err
	}
	found := false
	for i := range entries {
		if entries[i].ID == id {
			entries[i].Read = true
			found = true
			break
		}
	}
	if !found {
		return fmt.Errorf("notification %q: %w", id, ErrNotFound)
	}
	return s.repo.ReplaceNotifications(ctx, entries)
}

// MarkAllNotificationsRead flags every entry as read.
func (s *Service) MarkAllNotificationsRead(ctx context.Context) error {
	entries, err := s.repo.ListNotifications(ctx)
	if err != nil {
		return err
	}
	for i := range entries {
		entries[i].Read = true
	}
	return s.repo.ReplaceNotifications(ctx, entries)
}

// appendNotification pushes a new entry onto the capped log.
func (s *Service) appendNotification(ctx context.Context, change domain.ActuacionStatusChanged) error {
	entries, err := s.repo.ListNotifications(ctx)
	if err != nil {
		return err
	}
	entry := domain.NewActuacionNotification(s.idGen(), change)
	return s.repo.ReplaceNotifications(ctx, domain.PushNotification(entries, entry, s.notificationLimit))
}
