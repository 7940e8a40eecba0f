package http

import (
	"errors"
	"strings"

	"github.com/go-playground/validator/v10"

	apperrors "business-visa-backend/internal/common/errors"
)

// bindError reports the first failed binding rule by its JSON field name.
func bindError(err error) error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		return apperrors.NewValidationError(jsonField(fe.Namespace()), fe.Tag())
	}
	return apperrors.NewInvalidBodyError(err)
}

// jsonField turns "AcceptApplicantRequest.Applicant.WalletAddress" into "applicant.walletAddress".
func jsonField(namespace string) string {
	parts := strings.Split(namespace, ".")
	if len(parts) > 1 {
		parts = parts[1:]
	}
	for i, p := range parts {
		if p == "" {
			continue
		}
		parts[i] = lowerFirst(p)
	}
	return strings.Join(parts, ".")
}

func lowerFirst(s string) string {
	switch {
	case strings.HasPrefix(s, "NFT"):
		return "nft" + s[3:]
	case strings.HasSuffix(s, "ID") && len(s) > 2:
		return strings.ToLower(s[:1]) + s[1:len(s)-2] + "Id"
	}
	return strings.ToLower(s[:1]) + s[1:]
}
