package quote

import (
	"encoding/json"
	"errors"
	"testing"

	"escher-cotizador/go_backend/internal/domain/attachment"
)

func TestTotalOverLineItems(t *testing.T) {
	d := NewDraft()
	if got := d.Total(); got != 0 {
		t.Fatalf("empty draft total = %v, want 0", got)
	}

	d.AddItem()
	d.AddItem()
	mustUpdate(t, d, 0, "ancho", "2")
	mustUpdate(t, d, 0, "alto", "1.5")
	mustUpdate(t, d, 0, "cantidad", "2")
	mustUpdate(t, d, 0, "precio", "100")
	mustUpdate(t, d, 1, "ancho", "1")
	mustUpdate(t, d, 1, "alto", "1")
	mustUpdate(t, d, 1, "precio", "50")

	want := 2*1.5*2*100 + 1*1*1*50.0
	if got := d.Total(); got != want {
		t.Fatalf("total = %v, want %v", got, want)
	}

	if err := d.RemoveItem(0); err != nil {
		t.Fatalf("remove: %v", err)
	}
	if got := d.Total(); got != 50 {
		t.Fatalf("total after removal = %v, want 50 (recomputed, never cached)", got)
	}
}

func TestRemoveItemOutOfRange(t *testing.T) {
	d := NewDraft()
	if err := d.RemoveItem(0); !errors.Is(err, ErrItemIndex) {
		t.Fatalf("err = %v, want ErrItemIndex", err)
	}
}

func TestToRecordValidationGate(t *testing.T) {
	d := NewDraft()
	d.AddItem()
	if _, err := d.ToRecord(); !errors.Is(err, ErrMissingCustomer) {
		t.Fatalf("err = %v, want ErrMissingCustomer", err)
	}

	d = NewDraft()
	d.CustomerRef = "c1"
	if _, err := d.ToRecord(); !errors.Is(err, ErrEmptyQuote) {
		t.Fatalf("err = %v, want ErrEmptyQuote", err)
	}

	d.AddItem()
	mustUpdate(t, d, 0, "tipo", "Toldo")
	mustUpdate(t, d, 0, "ancho", "3")
	mustUpdate(t, d, 0, "alto", "2")
	mustUpdate(t, d, 0, "precio", "1200")
	rec, err := d.ToRecord()
	if err != nil {
		t.Fatalf("to record: %v", err)
	}
	if rec.Total != d.Total() {
		t.Fatalf("record total = %v, want %v", rec.Total, d.Total())
	}
	if rec.Estado != StatusQuoted {
		t.Fatalf("estado = %q, want default %q", rec.Estado, StatusQuoted)
	}
}

func TestRecordRoundTripTotal(t *testing.T) {
	d := NewDraft()
	d.CustomerRef = "c1"
	d.AddItem()
	mustUpdate(t, d, 0, "ancho", "1.1")
	mustUpdate(t, d, 0, "alto", "0.3")
	mustUpdate(t, d, 0, "cantidad", "7")
	mustUpdate(t, d, 0, "precio", "19.99")
	d.AddAttachments(attachment.Attachment{URL: "https://cdn/x.jpg", Kind: attachment.KindImage})

	rec, err := d.ToRecord()
	if err != nil {
		t.Fatalf("to record: %v", err)
	}

	// through the wire and back
	body, err := json.Marshal(rec)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var back Record
	if err := json.Unmarshal(body, &back); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	hydrated := draftFromRecord(back)
	if got := hydrated.Total(); got != rec.Total {
		t.Fatalf("hydrated total = %v, want %v bit-for-bit", got, rec.Total)
	}
	if len(hydrated.Attachments()) != 1 {
		t.Fatalf("attachments lost in round trip")
	}
}

func mustUpdate(t *testing.T, d *Draft, i int, field, raw string) {
	t.Helper()
	if err := d.UpdateItem(i, field, raw); err != nil {
		t.Fatalf("update item %d %s: %v", i, field, err)
	}
}
