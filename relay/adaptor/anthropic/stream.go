package anthropic

import (
	"bufio"
	"bytes"
	"encoding/json"
	"net/http"
	"strings"

	gmw "github.com/Laisky/gin-middlewares/v7"
	"github.com/Laisky/zap"
	"github.com/gin-gonic/gin"

	"github.com/kortix-ai/gateway/common"
	"github.com/kortix-ai/gateway/common/helper"
	"github.com/kortix-ai/gateway/relay/meta"
	relaymodel "github.com/kortix-ai/gateway/relay/model"
)

// streamState accumulates what the event stream reveals across events.
// Anthropic reports output_tokens cumulatively, so the last message_delta
// value observed is the total.
type streamState struct {
	messageID    string
	model        string
	created      int64
	inputTokens  int
	outputTokens int
}

// StreamHandler converts the Messages event stream into OpenAI
// chat-completion chunks, forwarding each synthesized chunk as soon as its
// source event arrives: no buffering, no reordering, no coalescing.
//
// Event handling: message_start captures the message id, model, and input
// tokens without emitting anything visible; content_block_delta/text_delta
// emits a content chunk; message_delta updates output tokens and emits a
// finish chunk when a stop_reason is present; message_stop emits nothing.
// An upstream error event aborts the stream without [DONE] so clients treat
// the abrupt close as failure. Any other termination, including a truncated
// upstream, ends with data: [DONE] and bills whatever was captured.
func StreamHandler(c *gin.Context, resp *http.Response, m *meta.Meta) (*relaymodel.Usage, *relaymodel.ErrorWithStatusCode) {
	defer func() { _ = resp.Body.Close() }()
	lg := gmw.GetLogger(c)

	common.SetEventStreamHeaders(c)
	flusher, _ := c.Writer.(http.Flusher)

	scanner := bufio.NewScanner(resp.Body)
	scanner.Split(scanSSERecords)
	helper.ConfigureScannerBuffer(scanner)

	state := &streamState{
		messageID: "chatcmpl-" + helper.GenRequestID(),
		model:     m.RequestedModel,
		created:   helper.GetTimestamp(),
	}
	aborted := false

	emit := func(chunk *relaymodel.ChatCompletionStreamResponse) bool {
		payload, err := json.Marshal(chunk)
		if err != nil {
			lg.Error("marshal stream chunk failed", zap.Error(err))
			return true
		}
		if _, err := c.Writer.WriteString("data: " + string(payload) + "\n\n"); err != nil {
			lg.Debug("client stream write failed; stopping relay", zap.Error(err))
			return false
		}
		if flusher != nil {
			flusher.Flush()
		}
		return true
	}

scan:
	for scanner.Scan() {
		event, ok := parseStreamEvent(scanner.Text())
		if !ok {
			continue
		}

		switch event.Type {
		case EventMessageStart:
			if event.Message != nil {
				if event.Message.ID != "" {
					state.messageID = event.Message.ID
				}
				if event.Message.Model != "" {
					state.model = event.Message.Model
				}
				state.inputTokens = event.Message.Usage.InputTokens
			}

		case EventContentBlockDelta:
			if event.Delta == nil || event.Delta.Type != "text_delta" || event.Delta.Text == "" {
				continue
			}
			if !emit(state.contentChunk(event.Delta.Text)) {
				break scan
			}

		case EventMessageDelta:
			if event.Usage != nil {
				state.outputTokens = event.Usage.OutputTokens
			}
			if event.Delta != nil && event.Delta.StopReason != nil {
				finish := TranslateStopReason(*event.Delta.StopReason)
				if !emit(state.finishChunk(finish)) {
					break scan
				}
			}

		case EventMessageStop:
			// Terminal; the [DONE] marker goes out on stream close.

		case EventError:
			message := "unknown stream error"
			if event.Error != nil {
				message = event.Error.Message
			}
			lg.Error("upstream stream error event",
				zap.String("error", message),
				zap.String("request_id", event.RequestId))
			aborted = true
			break scan
		}
	}
	if err := scanner.Err(); err != nil {
		lg.Warn("upstream stream read failed", zap.Error(err))
	}

	if !aborted {
		if _, err := c.Writer.WriteString("data: [DONE]\n\n"); err == nil && flusher != nil {
			flusher.Flush()
		}
	}

	return &relaymodel.Usage{
		PromptTokens:     state.inputTokens,
		CompletionTokens: state.outputTokens,
		TotalTokens:      state.inputTokens + state.outputTokens,
	}, nil
}

func (s *streamState) contentChunk(text string) *relaymodel.ChatCompletionStreamResponse {
	return &relaymodel.ChatCompletionStreamResponse{
		ID:      s.messageID,
		Object:  relaymodel.ObjectChatCompletionChunk,
		Created: s.created,
		Model:   s.model,
		Choices: []relaymodel.StreamChoice{{
			Index: 0,
			Delta: relaymodel.StreamDelta{Content: text},
		}},
	}
}

func (s *streamState) finishChunk(finishReason string) *relaymodel.ChatCompletionStreamResponse {
	return &relaymodel.ChatCompletionStreamResponse{
		ID:      s.messageID,
		Object:  relaymodel.ObjectChatCompletionChunk,
		Created: s.created,
		Model:   s.model,
		Choices: []relaymodel.StreamChoice{{
			Index:        0,
			Delta:        relaymodel.StreamDelta{},
			FinishReason: &finishReason,
		}},
	}
}

// parseStreamEvent extracts the JSON payload of one SSE record. Records
// carry "event:" and "data:" lines; only the data payload matters, since the
// payload repeats the event type.
func parseStreamEvent(record string) (*StreamResponse, bool) {
	for _, line := range strings.Split(record, "\n") {
		payload, ok := strings.CutPrefix(line, "data:")
		if !ok {
			continue
		}
		var event StreamResponse
		if err := json.Unmarshal([]byte(strings.TrimSpace(payload)), &event); err != nil {
			return nil, false
		}
		return &event, true
	}
	return nil, false
}

// scanSSERecords splits a byte stream on blank lines, the SSE record
// separator. A trailing partial record at EOF is returned as-is.
func scanSSERecords(data []byte, atEOF bool) (advance int, token []byte, err error) {
	if atEOF && len(data) == 0 {
		return 0, nil, nil
	}
	if i := bytes.Index(data, []byte("\n\n")); i >= 0 {
		return i + 2, bytes.TrimSuffix(data[:i], []byte("\r")), nil
	}
	if atEOF {
		return len(data), data, nil
	}
	return 0, nil, nil
}
