package model

// AdminSession is the record stored in Redis under a session token.
type AdminSession struct {
	Token   string `json:"-"`
	LoginID string `json:"loginId"`
}
