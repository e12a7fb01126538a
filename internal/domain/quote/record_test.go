package quote

import (
	"encoding/json"
	"testing"

	"escher-cotizador/go_backend/internal/domain/attachment"
)

func TestAttachmentListLegacyBareURLs(t *testing.T) {
	body := []byte(`{
		"clienteId": "c1",
		"productos": [],
		"total": 0,
		"estado": "vendido",
		"imagenes": [
			"https://res.cloudinary.com/demo/a.jpg",
			{"url": "https://res.cloudinary.com/demo/b.webm", "kind": "audio"},
			{"url": "https://res.cloudinary.com/demo/c.png"}
		]
	}`)

	var rec Record
	if err := json.Unmarshal(body, &rec); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if len(rec.Imagenes) != 3 {
		t.Fatalf("got %d attachments, want 3", len(rec.Imagenes))
	}
	if rec.Imagenes[0].Kind != attachment.KindImage {
		t.Fatalf("bare URL should decode as image, got %q", rec.Imagenes[0].Kind)
	}
	if rec.Imagenes[0].URL != "https://res.cloudinary.com/demo/a.jpg" {
		t.Fatalf("bare URL lost: %q", rec.Imagenes[0].URL)
	}
	if rec.Imagenes[1].Kind != attachment.KindAudio {
		t.Fatalf("tagged audio kind lost, got %q", rec.Imagenes[1].Kind)
	}
	if rec.Imagenes[2].Kind != attachment.KindImage {
		t.Fatalf("untagged object should default to image, got %q", rec.Imagenes[2].Kind)
	}
}

func TestStatusValid(t *testing.T) {
	for _, s := range []Status{StatusQuoted, StatusPending, StatusSold, StatusReadyToInstall} {
		if !s.Valid() {
			t.Fatalf("%q should be valid", s)
		}
	}
	if Status("archivado").Valid() {
		t.Fatal("unknown status should not validate")
	}
}

func TestDraftFromRecordInvalidStatus(t *testing.T) {
	d := draftFromRecord(Record{ClienteID: "c1", Estado: Status("???")})
	if d.Status != StatusQuoted {
		t.Fatalf("status = %q, want fallback %q", d.Status, StatusQuoted)
	}
}
