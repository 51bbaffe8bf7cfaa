package discord

import (
	"fmt"
	"strings"
	"testing"

	"github.com/bwmarrin/discordgo"
	messageDomain "github.com/reshetovitsme/termbot/internal/modules/message/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type recordingSender struct {
	texts  []string
	embeds []*discordgo.MessageEmbed
}

func (r *recordingSender) ChannelMessageSend(channelID string, content string, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	r.texts = append(r.texts, channelID+":"+content)
	return &discordgo.Message{}, nil
}

func (r *recordingSender) ChannelMessageSendEmbed(channelID string, embed *discordgo.MessageEmbed, _ ...discordgo.RequestOption) (*discordgo.Message, error) {
	r.embeds = append(r.embeds, embed)
	return &discordgo.Message{}, nil
}

func TestToInbound(t *testing.T) {
	t.Parallel()

	m := &discordgo.Message{
		ChannelID: "c1",
		Content:   "hello cat",
		Author:    &discordgo.User{ID: "u1", Username: "alice"},
	}

	in := toInbound(m, "bot", "general")
	assert.Equal(t, messageDomain.Inbound{
		ChannelID:   "c1",
		ChannelName: "general",
		AuthorID:    "u1",
		AuthorName:  "alice",
		Text:        "hello cat",
	}, in)

	assert.True(t, toInbound(m, "u1", "general").FromSelf)
	assert.False(t, toInbound(m, "", "general").FromSelf)
}

func TestSend_Text(t *testing.T) {
	t.Parallel()

	s := &recordingSender{}
	require.NoError(t, send(s, "c1", messageDomain.Reply{Text: "Hello World!"}))

	assert.Equal(t, []string{"c1:Hello World!"}, s.texts)
	assert.Empty(t, s.embeds)
}

func TestSend_FieldsBecomeEmbed(t *testing.T) {
	t.Parallel()

	s := &recordingSender{}
	reply := messageDomain.Reply{Fields: []messageDomain.Field{{Name: "cat", Value: "a feline"}}}
	require.NoError(t, send(s, "c1", reply))

	require.Len(t, s.embeds, 1)
	assert.Empty(t, s.embeds[0].Title)
	assert.Equal(t, []*discordgo.MessageEmbedField{{Name: "cat", Value: "a feline"}}, s.embeds[0].Fields)
}

func TestToEmbeds_SplitsAndTruncates(t *testing.T) {
	t.Parallel()

	var reply messageDomain.Reply
	for i := range 30 {
		reply.Fields = append(reply.Fields, messageDomain.Field{Name: fmt.Sprintf("t%d", i), Value: "v"})
	}
	reply.Fields[0].Value = strings.Repeat("x", 2000)

	embeds := toEmbeds(reply)
	require.Len(t, embeds, 2)
	assert.Len(t, embeds[0].Fields, 25)
	assert.Len(t, embeds[1].Fields, 5)
	assert.Equal(t, maxFieldValue, len([]rune(embeds[0].Fields[0].Value)))
}

func TestToEmbeds_SplitsAtTotalLength(t *testing.T) {
	t.Parallel()

	var reply messageDomain.Reply
	for i := range 7 {
		reply.Fields = append(reply.Fields, messageDomain.Field{Name: fmt.Sprintf("t%d", i), Value: strings.Repeat("v", 1024)})
	}

	embeds := toEmbeds(reply)
	require.Len(t, embeds, 2)
	assert.Len(t, embeds[0].Fields, 5)
	assert.Len(t, embeds[1].Fields, 2)

	for _, embed := range embeds {
		total := 0
		for _, f := range embed.Fields {
			total += len([]rune(f.Name)) + len([]rune(f.Value))
		}
		assert.LessOrEqual(t, total, maxEmbedLength)
	}
}

func TestToEmbeds_Empty(t *testing.T) {
	t.Parallel()

	assert.Empty(t, toEmbeds(messageDomain.Reply{}))
}
