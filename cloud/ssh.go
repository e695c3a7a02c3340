/*
Copyright The Pharmer Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/
package cloud

import (
	"context"
	"io/ioutil"
	"net"
	"time"

	"github.com/go-logr/logr"
	"github.com/pkg/errors"
	"golang.org/x/crypto/ssh"
	"k8s.io/apimachinery/pkg/util/wait"
)

const (
	SSHPort           = "22"
	SSHRetryInterval  = 5 * time.Second
	DefaultSSHTimeout = 5 * time.Minute
	sshDialTimeout    = 10 * time.Second
)

// SSHChecker reports whether host accepts an SSH login.
type SSHChecker func(ctx context.Context, host string) error

func LoadSigner(path string) (ssh.Signer, error) {
	data, err := ioutil.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to read ssh private key %s", path)
	}
	signer, err := ssh.ParsePrivateKey(data)
	if err != nil {
		return nil, errors.Wrapf(err, "failed to parse ssh private key %s", path)
	}
	return signer, nil
}

// NewSSHChecker logs in with the key and closes the connection right away.
// Host keys are not verified; the inventory disables strict checking too.
func NewSSHChecker(user string, signer ssh.Signer) SSHChecker {
	cfg := &ssh.ClientConfig{
		User:            user,
		Auth:            []ssh.AuthMethod{ssh.PublicKeys(signer)},
		HostKeyCallback: ssh.InsecureIgnoreHostKey(),
		Timeout:         sshDialTimeout,
	}
	return func(ctx context.Context, host string) error {
		return CheckSSH(ctx, host, cfg)
	}
}

// CheckSSH logs in to host, port 22 unless host carries one. The handshake
// is bounded by cfg.Timeout and by ctx.
func CheckSSH(ctx context.Context, host string, cfg *ssh.ClientConfig) error {
	addr := host
	if _, _, err := net.SplitHostPort(host); err != nil {
		addr = net.JoinHostPort(host, SSHPort)
	}
	d := net.Dialer{Timeout: cfg.Timeout}
	conn, err := d.DialContext(ctx, "tcp", addr)
	if err != nil {
		return err
	}

	var deadline time.Time
	if cfg.Timeout > 0 {
		deadline = time.Now().Add(cfg.Timeout)
	}
	if dl, ok := ctx.Deadline(); ok && (deadline.IsZero() || dl.Before(deadline)) {
		deadline = dl
	}
	if err := conn.SetDeadline(deadline); err != nil {
		conn.Close()
		return err
	}
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			conn.Close()
		case <-done:
		}
	}()

	c, chans, reqs, err := ssh.NewClientConn(conn, addr, cfg)
	if err != nil {
		conn.Close()
		return errors.Wrapf(err, "ssh handshake with %s failed", addr)
	}
	client := ssh.NewClient(c, chans, reqs)
	if err := conn.SetDeadline(time.Time{}); err != nil {
		client.Close()
		return err
	}
	return client.Close()
}

// WaitForSSH polls every host until it accepts a login or timeout expires.
func WaitForSSH(ctx context.Context, log logr.Logger, hosts []string, check SSHChecker, interval, timeout time.Duration) error {
	for _, host := range hosts {
		var lastErr error
		err := wait.PollUntilContextTimeout(ctx, interval, timeout, true, func(ctx context.Context) (bool, error) {
			lastErr = check(ctx, host)
			if lastErr != nil {
				log.V(2).Info("waiting for ssh", "host", host, "reason", lastErr.Error())
				return false, nil
			}
			return true, nil
		})
		if err != nil {
			if lastErr != nil {
				return errors.Wrapf(lastErr, "host %s is not reachable over ssh", host)
			}
			return errors.Wrapf(err, "host %s is not reachable over ssh", host)
		}
		log.Info("ssh is ready", "host", host)
	}
	return nil
}
