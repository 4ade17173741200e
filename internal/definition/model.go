package definition

import (
	"encoding/json"
	"strings"
)

// Definition 是释义服务返回的一条释义
type Definition struct {
	DefID      int64  `json:"defid"`
	Word       string `json:"word"`
	Definition string `json:"definition"`
	Example    string `json:"example"`
	ThumbsUp   int    `json:"thumbs_up"`
	ThumbsDown int    `json:"thumbs_down"`
	Author     string `json:"author"`
	Permalink  string `json:"permalink"`
}

// Response 是释义服务 /v0/define 接口的响应体
type Response struct {
	List []Definition `json:"list"`
}

// emptyResponse 是服务不可用时对外返回的空结果
var emptyResponse = []byte(`{"list":[]}`)

// Helpfulness 返回释义的有用程度，赞数减去踩数
func (d Definition) Helpfulness() int {
	return d.ThumbsUp - d.ThumbsDown
}

// Clean 去掉释义中用于内链的方括号并规整空白
func (d Definition) Clean() string {
	text := strings.NewReplacer("[", "", "]", "", "\r\n", " ", "\n", " ").Replace(d.Definition)
	return strings.Join(strings.Fields(text), " ")
}

func parseResponse(body []byte) ([]Definition, error) {
	var resp Response
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, err
	}
	return resp.List, nil
}
