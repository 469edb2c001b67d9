package xfc

// User represents a user record held by the xfc_control server
type User struct {
	Name          string `json:"name"`
	Email         string `json:"email"`
	QuotaSize     int64  `json:"quota_size"`
	QuotaUsed     int64  `json:"quota_used"`
	HardLimitSize int64  `json:"hard_limit_size"`
	TotalUsed     int64  `json:"total_used"`
	CachePath     string `json:"cache_path"`
	Notify        bool   `json:"notify"`
}

// File represents a single file in the user's transfer cache area.
// FirstSeen is kept as the raw server timestamp; rendering parses it.
type File struct {
	Path      string  `json:"path"`
	Size      int64   `json:"size"`
	CacheDisk string  `json:"cache_disk"`
	FirstSeen string  `json:"first_seen"`
	QuotaUsed float64 `json:"quota_used"`
}

// ScheduledDeletion represents a server-computed batch of files slated
// for removal at TimeDelete
type ScheduledDeletion struct {
	CacheDisk  string `json:"cache_disk"`
	TimeDelete string `json:"time_delete"`
	Files      []File `json:"files"`
}

// Prediction represents the server's forecast of when the user's
// temporal quota will be exceeded
type Prediction struct {
	TimePredict string `json:"time_predict"`
	OverQuota   int64  `json:"over_quota"`
	Files       []File `json:"files"`
}

// createUserRequest is the POST body for initialising a user.
// Email is omitted entirely when not supplied.
type createUserRequest struct {
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
}

// updateEmailRequest is the PUT body for changing a user's email
type updateEmailRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

// updateNotifyRequest is the PUT body for toggling deletion notifications
type updateNotifyRequest struct {
	Name   string `json:"name"`
	Notify bool   `json:"notify"`
}

// errorPayload is the JSON body the server attaches to error responses
type errorPayload struct {
	Error string `json:"error"`
}
