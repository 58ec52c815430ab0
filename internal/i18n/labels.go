package i18n

import (
	"context"

	"github.com/pavelanni/exampaper/internal/pdfexport"
)

// PDFLabels returns the document labels in the context's language.
func PDFLabels(ctx context.Context) pdfexport.Labels {
	return pdfexport.Labels{
		Subject:            T(ctx, "LabelSubject"),
		Class:              T(ctx, "LabelClass"),
		Chapter:            T(ctx, "LabelChapter"),
		Date:               T(ctx, "LabelDate"),
		Answer:             T(ctx, "LabelAnswer"),
		Explanation:        T(ctx, "LabelExplanation"),
		Instructions:       T(ctx, "LabelInstructions"),
		TimeLimit:          T(ctx, "LabelTimeLimit"),
		Minutes:            T(ctx, "LabelMinutes"),
		TotalMarks:         T(ctx, "LabelTotalMarks"),
		Questions:          T(ctx, "LabelQuestions"),
		TitleFull:          T(ctx, "TitleFull"),
		TitleQuestionPaper: T(ctx, "TitleQuestionPaper"),
		TitleAnswerKey:     T(ctx, "TitleAnswerKey"),
	}
}
