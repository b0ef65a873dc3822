package server

import (
	"encoding/xml"
	"fmt"
)

// Voice markup for the telephony provider. The provider fetches our
// webhook, gets this XML back, and speaks/gathers accordingly.

type twimlSay struct {
	XMLName  xml.Name `xml:"Say"`
	Voice    string   `xml:"voice,attr,omitempty"`
	Language string   `xml:"language,attr,omitempty"`
	Text     string   `xml:",chardata"`
}

type twimlGather struct {
	XMLName       xml.Name `xml:"Gather"`
	Input         string   `xml:"input,attr"`
	Action        string   `xml:"action,attr"`
	Method        string   `xml:"method,attr"`
	Language      string   `xml:"language,attr,omitempty"`
	SpeechTimeout string   `xml:"speechTimeout,attr,omitempty"`
	Say           *twimlSay
}

type twimlHangup struct {
	XMLName xml.Name `xml:"Hangup"`
}

type twimlResponse struct {
	XMLName xml.Name `xml:"Response"`
	Verbs   []any
}

const (
	speechVoice    = "Polly.Aditi"
	speechLanguage = "en-IN"
)

// gatherTwiML speaks the prompt and listens for the vendor's reply,
// posting the recognized speech back to actionURL.
func gatherTwiML(prompt, actionURL string) ([]byte, error) {
	resp := twimlResponse{
		Verbs: []any{
			twimlGather{
				Input:         "speech",
				Action:        actionURL,
				Method:        "POST",
				Language:      speechLanguage,
				SpeechTimeout: "auto",
				Say:           &twimlSay{Voice: speechVoice, Language: speechLanguage, Text: prompt},
			},
		},
	}
	return marshalTwiML(resp)
}

// closingTwiML speaks the closing message and hangs up.
func closingTwiML(message string) ([]byte, error) {
	resp := twimlResponse{
		Verbs: []any{
			twimlSay{Voice: speechVoice, Language: speechLanguage, Text: message},
			twimlHangup{},
		},
	}
	return marshalTwiML(resp)
}

func marshalTwiML(resp twimlResponse) ([]byte, error) {
	body, err := xml.Marshal(resp)
	if err != nil {
		return nil, fmt.Errorf("server: marshal twiml: %w", err)
	}
	return append([]byte(xml.Header), body...), nil
}
