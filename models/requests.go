package models

// Response is the uniform envelope returned by every endpoint.
type Response struct {
	Success bool        `json:"success"`
	Message string      `json:"message,omitempty"`
	Count   *int        `json:"count,omitempty"`
	Data    interface{} `json:"data,omitempty"`
}

// OK builds a success envelope around data.
func OK(data interface{}) Response {
	return Response{Success: true, Data: data}
}

// OKList builds a success envelope with a count, for list endpoints.
func OKList(data interface{}, count int) Response {
	return Response{Success: true, Count: &count, Data: data}
}

// OKMessage builds a success envelope with a message and data.
func OKMessage(message string, data interface{}) Response {
	return Response{Success: true, Message: message, Data: data}
}

// Fail builds a failure envelope with a message.
func Fail(message string) Response {
	return Response{Success: false, Message: message}
}

// CreateUserRequest registers a new user.
type CreateUserRequest struct {
	Name     string `json:"name" binding:"required,max=256"`
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required,min=8"`
	Phone    string `json:"phone"`
	Location string `json:"location"`
	Role     string `json:"role" binding:"omitempty,oneof=citizen admin observer analyst"`
}

// UpdateUserRequest is a partial user update.
type UpdateUserRequest struct {
	Name     *string `json:"name,omitempty" binding:"omitempty,max=256"`
	Email    *string `json:"email,omitempty" binding:"omitempty,email"`
	Phone    *string `json:"phone,omitempty"`
	Location *string `json:"location,omitempty"`
	Role     *string `json:"role,omitempty" binding:"omitempty,oneof=citizen admin observer analyst"`
	Password *string `json:"password,omitempty" binding:"omitempty,min=8"`
}

// CreateStationRequest creates a polling station.
type CreateStationRequest struct {
	Name             string      `json:"name" binding:"required"`
	Location         Location    `json:"location" binding:"required"`
	Capacity         int         `json:"capacity" binding:"required,gt=0"`
	VotingHours      VotingHours `json:"votingHours"`
	OfficialInCharge string      `json:"officialInCharge"`
	TotalVoters      int         `json:"totalVoters" binding:"omitempty,gte=0"`
}

// UpdateStationRequest is a partial station update.
type UpdateStationRequest struct {
	Name              *string      `json:"name,omitempty"`
	Location          *Location    `json:"location,omitempty"`
	Capacity          *int         `json:"capacity,omitempty" binding:"omitempty,gt=0"`
	CurrentCrowdLevel *string      `json:"currentCrowdLevel,omitempty" binding:"omitempty,oneof=low medium high"`
	VotingHours       *VotingHours `json:"votingHours,omitempty"`
	IsOpen            *bool        `json:"isOpen,omitempty"`
	VotersTurnout     *int         `json:"votersTurnout,omitempty" binding:"omitempty,gte=0"`
}

// CrowdLevelRequest is the body of the narrow crowd-level PATCH.
type CrowdLevelRequest struct {
	CurrentCrowdLevel string `json:"currentCrowdLevel" binding:"required"`
}

// CreateReportRequest submits a report against a station.
type CreateReportRequest struct {
	Reporter       string   `json:"reporter" binding:"required"`
	PollingStation string   `json:"pollingStation" binding:"required"`
	Type           string   `json:"type" binding:"required,oneof=crowd_level issue observation irregularity"`
	Description    string   `json:"description" binding:"required"`
	Severity       string   `json:"severity" binding:"omitempty,oneof=low medium high critical"`
	CrowdLevel     string   `json:"crowdLevel" binding:"omitempty,oneof=low medium high"`
	Attachments    []string `json:"attachments"`
}

// UpdateReportRequest mutates a report's review fields only.
type UpdateReportRequest struct {
	Status     *string `json:"status,omitempty" binding:"omitempty,oneof=reported under_review resolved closed"`
	Severity   *string `json:"severity,omitempty" binding:"omitempty,oneof=low medium high critical"`
	IsVerified *bool   `json:"isVerified,omitempty"`
	VerifiedBy *string `json:"verifiedBy,omitempty"`
}

// LoginRequest authenticates a user by email and password.
type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// RefreshRequest exchanges a refresh token for a new token pair.
type RefreshRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// TokenResponse carries an issued token pair.
type TokenResponse struct {
	Token        string `json:"token"`
	RefreshToken string `json:"refreshToken"`
	TokenType    string `json:"tokenType"`
	ExpiresIn    int    `json:"expiresIn"`
	User         *User  `json:"user,omitempty"`
}
