// Copyright (c) 2026 Yardmap. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package cellinfo

import "github.com/taibuivan/yardmap/internal/platform/apperr"

func errInfoNotFound(cellID string) *apperr.AppError {
	return apperr.NotFound("Cell information", apperr.FieldError{Field: "cell_id", Message: cellID})
}

func errCellNotFound(cellID string) *apperr.AppError {
	return apperr.NotFound("Cell", apperr.FieldError{Field: "cell_id", Message: cellID})
}

func errCellOccupied(cellID string) *apperr.AppError {
	return apperr.Conflict("Cell already carries container information",
		apperr.FieldError{Field: "cell_id", Message: cellID})
}
