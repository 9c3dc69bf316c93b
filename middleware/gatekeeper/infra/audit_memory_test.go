package infra

import (
	"context"
	"testing"
	"time"

	"cardfile-gateway/middleware/gatekeeper/domain"
)

func TestMemoryAuditStore_AggregatesByActionAndIP(t *testing.T) {
	s := NewMemoryAuditStore(WithKeepEvents(true))

	ev := domain.RejectionEvent{
		IP:     "1.2.3.4",
		Action: domain.ActionSearch,
		Count:  11,
		Limit:  10,
		Period: time.Hour,
	}
	_ = s.Record(context.Background(), ev)
	_ = s.Record(context.Background(), ev)
	_ = s.Record(context.Background(), domain.RejectionEvent{IP: "5.6.7.8", Action: domain.ActionView})

	if got := s.ByAction()[domain.ActionSearch]; got != 2 {
		t.Fatalf("expected 2 search rejections, got %d", got)
	}
	if got := s.ByIP()["1.2.3.4"]; got != 2 {
		t.Fatalf("expected 2 rejections for ip, got %d", got)
	}
	if got := len(s.Events()); got != 3 {
		t.Fatalf("expected 3 kept events, got %d", got)
	}
}

func TestMemoryAuditStore_NotifierRecords(t *testing.T) {
	s := NewMemoryAuditStore()
	notify := s.Notifier()

	notify(domain.RejectionEvent{IP: "1.1.1.1", Action: domain.ActionView})

	if got := s.ByAction()[domain.ActionView]; got != 1 {
		t.Fatalf("expected notifier to record, got %d", got)
	}
}
