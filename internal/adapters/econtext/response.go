package econtext

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"html"
	"io"
	"regexp"
	"strings"

	"github.com/kevin07696/card-gateways/internal/adapters/ports"
	"github.com/kevin07696/card-gateways/pkg/encoding"
)

// Authorization payload keys
const (
	AuthEcnToken          = "ecn_token"
	AuthUserToken         = "user_token"
	AuthPreviousOrderID   = "previous_order_id"
	AuthPreviousPaymtCode = "previous_paymt_code"
	AuthCardAcquirerCode  = "card_aquirer_code"
)

// defaultCharset is assumed when the document has no XML declaration
const defaultCharset = "shift_jis"

var declaredCharset = regexp.MustCompile(`^\s*<\?xml[^>]*encoding=["']([A-Za-z0-9_.:-]+)["']`)

type xmlNode struct {
	XMLName xml.Name
	Text    string    `xml:",chardata"`
	Nodes   []xmlNode `xml:",any"`
}

func (n xmlNode) allText() string {
	if len(n.Nodes) == 0 {
		return n.Text
	}
	var b strings.Builder
	b.WriteString(n.Text)
	for _, child := range n.Nodes {
		b.WriteString(child.allText())
	}
	return b.String()
}

func (n xmlNode) find(local string) (xmlNode, bool) {
	if strings.EqualFold(n.XMLName.Local, local) {
		return n, true
	}
	for _, child := range n.Nodes {
		if found, ok := child.find(local); ok {
			return found, true
		}
	}
	return xmlNode{}, false
}

// toUTF8 transcodes the body from its declared charset and resolves HTML
// entities, so the XML parser only ever sees UTF-8.
func toUTF8(raw []byte) (string, error) {
	label := defaultCharset
	if m := declaredCharset.FindSubmatch(raw); m != nil {
		label = string(m[1])
	}
	r, err := encoding.CharsetReader(label, bytes.NewReader(raw))
	if err != nil {
		return "", err
	}
	text, err := io.ReadAll(r)
	if err != nil {
		return "", fmt.Errorf("transcode %s response: %w", label, err)
	}
	return html.UnescapeString(string(text)), nil
}

// parseBody flattens the children of <result>. Leaf elements map their
// lowercased name to their text; a nested element contributes one
// parent_child key per child element.
func parseBody(raw []byte) (map[string]string, error) {
	text, err := toUTF8(raw)
	if err != nil {
		return nil, err
	}

	dec := xml.NewDecoder(strings.NewReader(text))
	// unescaping may leave bare ampersands behind
	dec.Strict = false
	// the document is already UTF-8 whatever its declaration says
	dec.CharsetReader = func(_ string, input io.Reader) (io.Reader, error) {
		return input, nil
	}

	var root xmlNode
	if err := dec.Decode(&root); err != nil {
		return nil, fmt.Errorf("parse econtext response: %w", err)
	}

	params := make(map[string]string)
	result, ok := root.find("result")
	if !ok {
		return params, nil
	}
	for _, node := range result.Nodes {
		name := strings.ToLower(node.XMLName.Local)
		if len(node.Nodes) == 0 {
			params[name] = node.Text
			continue
		}
		for _, child := range node.Nodes {
			params[name+"_"+strings.ToLower(child.XMLName.Local)] = child.allText()
		}
	}
	return params, nil
}

// request holds the identifiers of the outgoing request that are echoed
// into the authorization payload.
type request struct {
	orderID   string
	paymtCode PaymentCode
	userID    string
}

func (a *Adapter) buildResponse(raw []byte, req request) (*ports.Response, error) {
	params, err := parseBody(raw)
	if err != nil {
		return nil, err
	}

	return &ports.Response{
		Success:       params["status"] == StatusSuccess,
		Message:       message(params),
		Params:        params,
		Authorization: authorization(params, req),
		Test:          a.config.Environment.IsTest(),
		ErrorCode:     params["infocode"],
	}, nil
}

// message is info followed by "(infocode)" when an info code is present
func message(params map[string]string) string {
	if _, ok := params["status"]; !ok {
		return ""
	}
	msg := params["info"]
	if code := params["infocode"]; code != "" {
		msg += "(" + code + ")"
	}
	return msg
}

func authorization(params map[string]string, req request) ports.Authorization {
	auth := ports.Authorization{}
	put := func(key, value string) {
		if value != "" {
			auth[key] = value
		}
	}
	put(AuthEcnToken, params["ecntoken"])
	userID := params["cduserid"]
	if userID == "" {
		userID = req.userID
	}
	put(AuthUserToken, userID)
	put(AuthPreviousOrderID, req.orderID)
	put(AuthPreviousPaymtCode, string(req.paymtCode))
	put(AuthCardAcquirerCode, params["shimukecd"])
	return auth
}
