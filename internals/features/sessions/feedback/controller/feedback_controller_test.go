package controller

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	feedbackDTO "tutorin_backend/internals/features/sessions/feedback/dto"
	feedbackModel "tutorin_backend/internals/features/sessions/feedback/model"
)

func TestValidateFeedbackContent(t *testing.T) {
	tests := []struct {
		name    string
		req     feedbackDTO.SubmitFeedbackRequest
		wantErr bool
	}{
		{
			name: "teks valid",
			req: feedbackDTO.SubmitFeedbackRequest{
				FeedbackType: feedbackModel.FeedbackTypeText,
				Text:         "Anak rajin, fokus di aljabar dasar.",
			},
		},
		{
			name: "teks terlalu pendek",
			req: feedbackDTO.SubmitFeedbackRequest{
				FeedbackType: feedbackModel.FeedbackTypeText,
				Text:         "Bagus",
			},
			wantErr: true,
		},
		{
			name: "teks hanya spasi ditolak",
			req: feedbackDTO.SubmitFeedbackRequest{
				FeedbackType: feedbackModel.FeedbackTypeText,
				Text:         "              ",
			},
			wantErr: true,
		},
		{
			name: "teks tapi ikut membawa audio",
			req: feedbackDTO.SubmitFeedbackRequest{
				FeedbackType: feedbackModel.FeedbackTypeText,
				Text:         "Anak rajin, fokus di aljabar dasar.",
				AudioURL:     "https://cdn.example.com/fb/rec.mp3",
			},
			wantErr: true,
		},
		{
			name: "audio valid",
			req: feedbackDTO.SubmitFeedbackRequest{
				FeedbackType:  feedbackModel.FeedbackTypeAudio,
				AudioURL:      "https://cdn.example.com/fb/rec.mp3",
				AudioDuration: 45,
			},
		},
		{
			name: "audio tanpa url",
			req: feedbackDTO.SubmitFeedbackRequest{
				FeedbackType:  feedbackModel.FeedbackTypeAudio,
				AudioDuration: 30,
			},
			wantErr: true,
		},
		{
			name: "audio dengan ekstensi bukan audio",
			req: feedbackDTO.SubmitFeedbackRequest{
				FeedbackType:  feedbackModel.FeedbackTypeAudio,
				AudioURL:      "https://cdn.example.com/fb/rec.pdf",
				AudioDuration: 30,
			},
			wantErr: true,
		},
		{
			name: "audio melewati 60 detik",
			req: feedbackDTO.SubmitFeedbackRequest{
				FeedbackType:  feedbackModel.FeedbackTypeAudio,
				AudioURL:      "https://cdn.example.com/fb/rec.ogg",
				AudioDuration: 61,
			},
			wantErr: true,
		},
		{
			name: "audio tepat 60 detik masih boleh",
			req: feedbackDTO.SubmitFeedbackRequest{
				FeedbackType:  feedbackModel.FeedbackTypeAudio,
				AudioURL:      "https://cdn.example.com/fb/rec.wav",
				AudioDuration: 60,
			},
		},
		{
			name: "audio durasi nol",
			req: feedbackDTO.SubmitFeedbackRequest{
				FeedbackType:  feedbackModel.FeedbackTypeAudio,
				AudioURL:      "https://cdn.example.com/fb/rec.m4a",
				AudioDuration: 0,
			},
			wantErr: true,
		},
		{
			name: "audio tapi ikut membawa teks",
			req: feedbackDTO.SubmitFeedbackRequest{
				FeedbackType:  feedbackModel.FeedbackTypeAudio,
				AudioURL:      "https://cdn.example.com/fb/rec.mp3",
				AudioDuration: 20,
				Text:          "catatan tambahan",
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := validateFeedbackContent(&tt.req)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				require.NoError(t, err)
			}
		})
	}
}
