package handlers

import (
	"errors"
	"io"
	"log"
	"mime"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"

	"escher-cotizador/go_backend/internal/domain/attachment"
	"escher-cotizador/go_backend/internal/domain/quote"
)

const maxAttachmentUpload = 50 << 20

type attachmentResult struct {
	Filename string `json:"filename"`
	URL      string `json:"url,omitempty"`
	Kind     string `json:"kind,omitempty"`
	Reason   string `json:"reason,omitempty"`
}

type attachmentResponse struct {
	Attached []attachmentResult `json:"attached"`
	Rejected []attachmentResult `json:"rejected"`
	Errors   []attachmentResult `json:"errors"`
}

// UploadAttachments stages the multipart batch through the collector,
// uploads everything, appends what succeeded to the quote and saves it.
// Uploads are independent: a failed one is reported while the rest stay
// attached.
func (h *Handlers) UploadAttachments(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	r.Body = http.MaxBytesReader(w, r.Body, maxAttachmentUpload)
	if err := r.ParseMultipartForm(maxAttachmentUpload); err != nil {
		http.Error(w, "invalid multipart form", http.StatusBadRequest)
		return
	}
	if r.MultipartForm == nil || len(r.MultipartForm.File) == 0 {
		http.Error(w, "no files", http.StatusBadRequest)
		return
	}

	var resp attachmentResponse
	collector := attachment.NewCollector()
	collector.SetDetails(strings.TrimSpace(r.FormValue("details")))

	for field, headers := range r.MultipartForm.File {
		for _, fh := range headers {
			f, err := fh.Open()
			if err != nil {
				resp.Errors = append(resp.Errors, attachmentResult{Filename: fh.Filename, Reason: "open failed"})
				continue
			}
			data, err := io.ReadAll(f)
			f.Close()
			if err != nil {
				resp.Errors = append(resp.Errors, attachmentResult{Filename: fh.Filename, Reason: "read failed"})
				continue
			}
			staged := attachment.File{
				Name:        fh.Filename,
				ContentType: contentTypeOf(fh.Filename, fh.Header.Get("Content-Type"), data),
				Data:        data,
			}
			if field == "audio" {
				// the browser's record toggle collapses to a single clip
				// per request
				if err := collector.StartRecording(); err == nil {
					_ = collector.StopRecording(staged)
				}
				continue
			}
			if err := collector.AddFiles(staged); err != nil {
				resp.Rejected = append(resp.Rejected, attachmentResult{Filename: fh.Filename, Reason: "only image files are accepted"})
			}
		}
	}

	attached, commitErr := collector.Commit(r.Context(), h.Media)
	if commitErr != nil && errors.Is(commitErr, attachment.ErrNothingStaged) {
		writeJSON(w, http.StatusBadRequest, resp)
		return
	}
	if commitErr != nil {
		log.Printf("attachments: partial upload quote_id=%s err=%v", id, commitErr)
		resp.Errors = append(resp.Errors, attachmentResult{Reason: commitErr.Error()})
	}

	if len(attached) > 0 {
		sess, err := quote.OpenSession(r.Context(), h.Quotes, h.Identity, id)
		if err != nil {
			writeQuoteError(w, err)
			return
		}
		sess.Edit()
		if err := sess.AddAttachments(attached...); err != nil {
			writeQuoteError(w, err)
			return
		}
		if err := sess.Save(r.Context()); err != nil {
			writeQuoteError(w, err)
			return
		}
	}

	for _, a := range attached {
		resp.Attached = append(resp.Attached, attachmentResult{URL: a.URL, Kind: string(a.Kind)})
	}
	log.Printf("attachments: quote_id=%s attached=%d rejected=%d errors=%d",
		id, len(resp.Attached), len(resp.Rejected), len(resp.Errors))
	writeJSON(w, http.StatusOK, resp)
}

// DeleteAttachment discards one attachment by URL inside an edit session.
func (h *Handlers) DeleteAttachment(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	url := strings.TrimSpace(r.URL.Query().Get("url"))
	if url == "" {
		http.Error(w, "url is required", http.StatusBadRequest)
		return
	}

	sess, err := quote.OpenSession(r.Context(), h.Quotes, h.Identity, id)
	if err != nil {
		writeQuoteError(w, err)
		return
	}
	sess.Edit()
	if err := sess.RemoveAttachment(url); err != nil {
		writeQuoteError(w, err)
		return
	}
	if err := sess.Save(r.Context()); err != nil {
		writeQuoteError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"ok": true, "url": url})
}

func contentTypeOf(filename, declared string, data []byte) string {
	if declared != "" {
		return declared
	}
	if ct := mime.TypeByExtension(strings.ToLower(filepath.Ext(filename))); ct != "" {
		return ct
	}
	return http.DetectContentType(data)
}
