package packet

import (
	"bytes"
	"encoding/hex"
	"strings"
	"testing"
)

func hexBytes(t *testing.T, s string) []byte {
	t.Helper()
	b, err := hex.DecodeString(strings.ReplaceAll(s, " ", ""))
	if err != nil {
		t.Fatalf("bad hex literal %q: %v", s, err)
	}
	return b
}

func TestConnectWireFormat(t *testing.T) {
	want := hexBytes(t, "10 13 00 04 4D 51 54 54 04 C2 00 3C 00 01 63 00 01 75 00 01 70")

	p := &Connect{
		CleanSession: true,
		KeepAlive:    60,
		ClientID:     "c",
		HasUsername:  true,
		Username:     "u",
		HasPassword:  true,
		Password:     []byte("p"),
	}

	var buf bytes.Buffer
	if err := p.Encode(&buf); err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	if got := buf.Bytes(); !bytes.Equal(got, want) {
		t.Errorf("Encode() = % X, want % X", got, want)
	}
}

func TestSubscribeWireFormat(t *testing.T) {
	want := hexBytes(t, "82 06 00 01 00 01 74 00")

	p := &Subscribe{
		PacketID: 1,
		Filters:  []TopicFilterQoS{{Filter: "t", QoS: QoS0}},
	}

	var buf bytes.Buffer
	if err := p.Encode(&buf); err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	if got := buf.Bytes(); !bytes.Equal(got, want) {
		t.Errorf("Encode() = % X, want % X", got, want)
	}
}

func TestPublishQoS0WireFormat(t *testing.T) {
	want := hexBytes(t, "30 04 00 01 74 41")

	p := &Publish{
		QoS:     QoS0,
		Topic:   "t",
		Payload: []byte{0x41},
	}

	var buf bytes.Buffer
	if err := p.Encode(&buf); err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	if got := buf.Bytes(); !bytes.Equal(got, want) {
		t.Errorf("Encode() = % X, want % X", got, want)
	}
}

func TestInboundConnackSuccess(t *testing.T) {
	raw := hexBytes(t, "20 02 00 00")

	fh, n, err := ParseFixedHeaderFromBytes(raw)
	if err != nil {
		t.Fatalf("ParseFixedHeaderFromBytes() error = %v", err)
	}
	if fh.Type != CONNACK {
		t.Fatalf("Type = %v, want CONNACK", fh.Type)
	}

	ack, err := DecodeConnack(raw[n : n+int(fh.RemainingLength)])
	if err != nil {
		t.Fatalf("DecodeConnack() error = %v", err)
	}
	if ack.ReturnCode != ConnectAccepted {
		t.Errorf("ReturnCode = %v, want ConnectAccepted", ack.ReturnCode)
	}
	if ack.SessionPresent {
		t.Error("SessionPresent = true, want false")
	}
}

func TestInboundPublishQoS0(t *testing.T) {
	raw := hexBytes(t, "30 05 00 01 74 68 69")

	fh, n, err := ParseFixedHeaderFromBytes(raw)
	if err != nil {
		t.Fatalf("ParseFixedHeaderFromBytes() error = %v", err)
	}

	pub, err := DecodePublish(fh, raw[n:n+int(fh.RemainingLength)])
	if err != nil {
		t.Fatalf("DecodePublish() error = %v", err)
	}
	if pub.Topic != "t" {
		t.Errorf("Topic = %q, want %q", pub.Topic, "t")
	}
	if string(pub.Payload) != "hi" {
		t.Errorf("Payload = %q, want %q", pub.Payload, "hi")
	}
	if pub.QoS != QoS0 {
		t.Errorf("QoS = %v, want QoS0", pub.QoS)
	}
}

func TestInboundPublishQoS1RequiresPuback(t *testing.T) {
	raw := hexBytes(t, "32 06 00 01 74 00 07 78")
	wantPuback := hexBytes(t, "40 02 00 07")

	fh, n, err := ParseFixedHeaderFromBytes(raw)
	if err != nil {
		t.Fatalf("ParseFixedHeaderFromBytes() error = %v", err)
	}

	pub, err := DecodePublish(fh, raw[n:n+int(fh.RemainingLength)])
	if err != nil {
		t.Fatalf("DecodePublish() error = %v", err)
	}
	if pub.QoS != QoS1 {
		t.Fatalf("QoS = %v, want QoS1", pub.QoS)
	}
	if pub.PacketID != 7 {
		t.Fatalf("PacketID = %d, want 7", pub.PacketID)
	}
	if string(pub.Payload) != "x" {
		t.Fatalf("Payload = %q, want %q", pub.Payload, "x")
	}

	ack := &Puback{PacketID: pub.PacketID}
	var buf bytes.Buffer
	if err := ack.Encode(&buf); err != nil {
		t.Fatalf("Encode() error = %v", err)
	}
	if got := buf.Bytes(); !bytes.Equal(got, wantPuback) {
		t.Errorf("PUBACK = % X, want % X", got, wantPuback)
	}
}

func TestPingAndDisconnectWireFormat(t *testing.T) {
	var pingBuf bytes.Buffer
	if err := (Pingreq{}).Encode(&pingBuf); err != nil {
		t.Fatalf("Pingreq.Encode() error = %v", err)
	}
	if want := hexBytes(t, "C0 00"); !bytes.Equal(pingBuf.Bytes(), want) {
		t.Errorf("PINGREQ = % X, want % X", pingBuf.Bytes(), want)
	}

	var discBuf bytes.Buffer
	if err := (Disconnect{}).Encode(&discBuf); err != nil {
		t.Fatalf("Disconnect.Encode() error = %v", err)
	}
	if want := hexBytes(t, "E0 00"); !bytes.Equal(discBuf.Bytes(), want) {
		t.Errorf("DISCONNECT = % X, want % X", discBuf.Bytes(), want)
	}
}
