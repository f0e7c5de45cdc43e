package server

import (
	"bufio"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"redgo/internal/store"
)

func startTestServer(t *testing.T) (*Server, net.Conn) {
	t.Helper()
	ks := store.New()
	ps := store.NewPubSub()
	srv := New(Options{Host: "127.0.0.1", Port: 0}, ks, ps)

	go srv.ListenAndServe()
	for i := 0; i < 1000 && srv.Addr() == nil; i++ {
		time.Sleep(time.Millisecond)
	}
	require.NotNil(t, srv.Addr())

	t.Cleanup(func() {
		srv.Shutdown()
		ks.Close()
	})

	conn, err := net.Dial("tcp", srv.Addr().String())
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	return srv, conn
}

func sendCommand(t *testing.T, conn net.Conn, parts ...string) string {
	t.Helper()
	var req string
	req += "*" + itoa(len(parts)) + "\r\n"
	for _, p := range parts {
		req += "$" + itoa(len(p)) + "\r\n" + p + "\r\n"
	}
	_, err := conn.Write([]byte(req))
	require.NoError(t, err)

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	reader := bufio.NewReader(conn)
	line, err := reader.ReadString('\n')
	require.NoError(t, err)
	return line
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	digits := []byte{}
	for n > 0 {
		digits = append([]byte{byte('0' + n%10)}, digits...)
		n /= 10
	}
	return string(digits)
}

func TestServerRespondsToPing(t *testing.T) {
	_, conn := startTestServer(t)
	line := sendCommand(t, conn, "PING")
	assert.Equal(t, "+PONG\r\n", line)
}

func TestServerSetGetRoundTrip(t *testing.T) {
	_, conn := startTestServer(t)
	assert.Equal(t, "+OK\r\n", sendCommand(t, conn, "SET", "foo", "bar"))

	reader := bufio.NewReader(conn)
	_, err := conn.Write([]byte("*2\r\n$3\r\nGET\r\n$3\r\nfoo\r\n"))
	require.NoError(t, err)
	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	header, err := reader.ReadString('\n')
	require.NoError(t, err)
	assert.Equal(t, "$3\r\n", header)
	body, err := reader.ReadString('\n')
	require.NoError(t, err)
	assert.Equal(t, "bar\r\n", body)
}

func TestServerQuitClosesConnection(t *testing.T) {
	_, conn := startTestServer(t)
	line := sendCommand(t, conn, "QUIT")
	assert.Equal(t, "+OK\r\n", line)

	conn.SetReadDeadline(time.Now().Add(2 * time.Second))
	buf := make([]byte, 1)
	_, err := conn.Read(buf)
	assert.Error(t, err)
}

func TestServerPubSubDeliversMessage(t *testing.T) {
	srv, subConn := startTestServer(t)

	_, err := subConn.Write([]byte("*2\r\n$9\r\nSUBSCRIBE\r\n$4\r\nnews\r\n"))
	require.NoError(t, err)

	reader := bufio.NewReader(subConn)
	subConn.SetReadDeadline(time.Now().Add(2 * time.Second))
	// *3\r\n$9\r\nsubscribe\r\n$4\r\nnews\r\n:1\r\n
	for i := 0; i < 6; i++ {
		if _, err := reader.ReadString('\n'); err != nil {
			t.Fatalf("reading subscribe confirmation: %v", err)
		}
	}

	pubConn, err := net.Dial("tcp", srv.Addr().String())
	require.NoError(t, err)
	defer pubConn.Close()

	_, err = pubConn.Write([]byte("*3\r\n$7\r\nPUBLISH\r\n$4\r\nnews\r\n$5\r\nhello\r\n"))
	require.NoError(t, err)
	pubConn.SetReadDeadline(time.Now().Add(2 * time.Second))
	pubReader := bufio.NewReader(pubConn)
	line, err := pubReader.ReadString('\n')
	require.NoError(t, err)
	assert.Equal(t, ":1\r\n", line)

	subConn.SetReadDeadline(time.Now().Add(2 * time.Second))
	msgType, err := reader.ReadString('\n')
	require.NoError(t, err)
	assert.Equal(t, "*3\r\n", msgType)
}
