package model

type AdType string

const (
	AdTypeImage  AdType = "IMAGE"
	AdTypeIframe AdType = "IFRAME"
)

func (t AdType) Valid() bool {
	return t == AdTypeImage || t == AdTypeIframe
}
