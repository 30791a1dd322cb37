package constant

// Portfolio lifecycle. The bulk Q&A generator owns the
// confirmed -> generating -> ready_for_review | failed transitions.
const (
	PortfolioStatusPending        = "pending"
	PortfolioStatusConfirmed      = "confirmed"
	PortfolioStatusGenerating     = "generating"
	PortfolioStatusReadyForReview = "ready_for_review"
	PortfolioStatusFailed         = "failed"
	PortfolioStatusDeleted        = "deleted"
)

// Portfolio item / Q&A lifecycle. Only confirmed records carry a usable
// embedding and are eligible for retrieval.
const (
	ItemStatusPending   = "pending"
	ItemStatusConfirmed = "confirmed"
	ItemStatusDeleted   = "deleted"
)

// Portfolio item types
const (
	ItemTypeIntroduction = "introduction"
	ItemTypeExperience   = "experience"
	ItemTypeProject      = "project"
	ItemTypeSkills       = "skills"
	ItemTypeEducation    = "education"
	ItemTypeContact      = "contact"
)
