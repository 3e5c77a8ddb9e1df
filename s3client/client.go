package s3client

import (
	"bytes"
	"errors"
	"fmt"
	"github.com/aws/aws-sdk-go/aws"
	"github.com/aws/aws-sdk-go/aws/credentials"
	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/aws/aws-sdk-go/service/s3/s3manager"
	"github.com/aws/aws-sdk-go/service/sts"
	"github.com/kelseyhightower/envconfig"
	"github.com/rs/zerolog"
	"strings"
	"text2phenotype.com/postagger/corpus"
	"text2phenotype.com/postagger/logger"
)

var (
	clientLogger = logger.NewLogger("S3Client")
	sdkLogger    = logger.NewLogger("S3-SDK")
)

type Client struct {
	holder *sessionHolder
	env    EnvironmentConfig
}

// sessionHolder hands out the current session. A failed call sends its error
// on errorCh and gets a refreshed session back on requestCh.
type sessionHolder struct {
	curr      *session.Session
	requestCh <-chan *session.Session
	errorCh   chan<- error
	closeCh   chan<- struct{}
}

type EnvironmentConfig struct {
	BucketName  string `envconfig:"TAGGER_S3_BUCKET" required:"true"`
	Env         string `envconfig:"TAGGER_ENV" default:"prod"`
	Region      string `envconfig:"TAGGER_AWS_REGION" required:"true"`
	AwsEndpoint string `envconfig:"TAGGER_AWS_ENDPOINT_URL" default:""`
	AccessKeyID string `envconfig:"TAGGER_AWS_ACCESS_ID" default:""`
	AccessKey   string `envconfig:"TAGGER_AWS_ACCESS_KEY" default:""`
}

func New() (*Client, error) {
	var env EnvironmentConfig
	if err := envconfig.Process("", &env); err != nil {
		clientLogger.Err(err).Msg("Failed to get proper variables from environment")
		return nil, err
	}

	sessionCh := make(chan *session.Session)
	errorCh := make(chan error)
	closeCh := make(chan struct{}, 1)
	client := &Client{
		env: env,
		holder: &sessionHolder{
			requestCh: sessionCh,
			errorCh:   errorCh,
			closeCh:   closeCh,
		},
	}
	if err := client.acquireNewSession(); err != nil {
		return nil, err
	}
	go client.keepSessionRefreshed(sessionCh, errorCh, closeCh)
	return client, nil
}

func (client *Client) Upload(data string, key string) (*s3manager.UploadOutput, error) {
	var output *s3manager.UploadOutput
	err := client.withSession(func(sess *session.Session) error {
		var err error
		output, err = client.upload(sess, &s3manager.UploadInput{
			Bucket: aws.String(client.env.BucketName),
			Key:    aws.String(key),
			Body:   strings.NewReader(data),
		})
		return err
	})
	return output, err
}

func (client *Client) Download(key string) ([]byte, error) {
	var data []byte
	err := client.withSession(func(sess *session.Session) error {
		var err error
		data, err = client.download(sess, &s3.GetObjectInput{
			Bucket: aws.String(client.env.BucketName),
			Key:    aws.String(key),
		})
		return err
	})
	return data, err
}

// OpenCorpus downloads a tags/sentences object pair and reads it from memory.
func (client *Client) OpenCorpus(tagsKey, sentencesKey string) (*corpus.Reader, error) {
	tags, err := client.Download(tagsKey)
	if err != nil {
		return nil, &corpus.IOError{Path: client.objectPath(tagsKey), Err: err}
	}
	sentences, err := client.Download(sentencesKey)
	if err != nil {
		return nil, &corpus.IOError{Path: client.objectPath(sentencesKey), Err: err}
	}
	return corpus.NewReader(bytes.NewReader(tags), bytes.NewReader(sentences)), nil
}

func (client *Client) objectPath(key string) string {
	return fmt.Sprintf("s3://%s/%s", client.env.BucketName, key)
}

func (client *Client) Close() {
	client.holder.closeCh <- struct{}{}
}

// withSession runs call once, and once more on a refreshed session if it fails.
func (client *Client) withSession(call func(sess *session.Session) error) error {
	sess, err := client.session()
	if err != nil {
		return err
	}
	err = call(sess)
	if err == nil {
		return nil
	}
	sess, err = client.tryRefreshingSession(err)
	if err != nil {
		return err
	}
	return call(sess)
}

func (client *Client) upload(sess *session.Session, params *s3manager.UploadInput) (*s3manager.UploadOutput, error) {
	keyLogger := clientLogger.With().Str("key", *params.Key).Str("bucket", *params.Bucket).Logger()
	sdkLog := sdkLogger.With().Str("key", *params.Key).Str("bucket", *params.Bucket).Logger()

	uploader := s3manager.NewUploader(sess.Copy(&aws.Config{Logger: &s3Logger{sdkLog}}))
	keyLogger.Debug().Msg("Uploading object")
	return uploader.Upload(params)
}

func (client *Client) download(sess *session.Session, params *s3.GetObjectInput) ([]byte, error) {
	keyLogger := clientLogger.With().Str("key", *params.Key).Str("bucket", *params.Bucket).Logger()
	sdkLog := sdkLogger.With().Str("key", *params.Key).Str("bucket", *params.Bucket).Logger()

	downloader := s3manager.NewDownloader(sess.Copy(&aws.Config{Logger: &s3Logger{sdkLog}}))
	buf := aws.NewWriteAtBuffer([]byte{})

	keyLogger.Debug().Msg("Downloading object")
	size, err := downloader.Download(buf, params)
	if err != nil {
		keyLogger.Error().Err(err).Msg("Failed to download object")
		return nil, err
	}
	keyLogger.Debug().Int64("bytes", size).Msg("Downloaded object")
	return buf.Bytes(), nil
}

func (client *Client) keepSessionRefreshed(sessionCh chan<- *session.Session, errorCh <-chan error, closeCh <-chan struct{}) {
	for {
		select {
		case sessionCh <- client.holder.curr:
			continue
		default:
		}
		select {
		case sessionCh <- client.holder.curr:
		case err := <-errorCh:
			clientLogger.Error().Err(err).Msg("S3 call failed, refreshing session")
			if err = client.acquireNewSession(); err != nil {
				clientLogger.Error().Err(err).Msg("Failed to refresh S3 session")
				continue
			}
			clientLogger.Info().Msg("Refreshed S3 session")
		case <-closeCh:
			clientLogger.Info().Msg("Closing client")
			return
		}
	}
}

func (client *Client) tryRefreshingSession(err error) (*session.Session, error) {
	var sess *session.Session
	select {
	case client.holder.errorCh <- err:
		sess = <-client.holder.requestCh
	case sess = <-client.holder.requestCh:
	}
	if sess == nil {
		return nil, errors.New("failed to refresh session")
	}
	return sess, nil
}

func (client *Client) session() (*session.Session, error) {
	sess := <-client.holder.requestCh
	if sess == nil {
		return nil, errors.New("could not get session")
	}
	return sess, nil
}

func (client *Client) instanceConfig() *aws.Config {
	return aws.NewConfig().
		WithRegion(client.env.Region).
		WithMaxRetries(4).
		WithLogLevel(aws.LogDebug)
}

func (client *Client) staticConfig() (*aws.Config, error) {
	creds := credentials.NewStaticCredentials(client.env.AccessKeyID, client.env.AccessKey, "")
	if _, err := creds.Get(); err != nil {
		return nil, fmt.Errorf("credentials from environment: %w", err)
	}
	cfg := client.instanceConfig().WithCredentials(creds)
	if client.env.Env == "dev" && len(client.env.AwsEndpoint) > 0 {
		cfg = cfg.WithEndpoint(client.env.AwsEndpoint).WithS3ForcePathStyle(true)
	}
	return cfg, nil
}

// acquireNewSession tries the instance role first, then static credentials
// from the environment.
func (client *Client) acquireNewSession() error {
	client.holder.curr = nil
	if sess, err := verifiedSession(client.instanceConfig()); err == nil {
		client.holder.curr = sess
		clientLogger.Info().Msg("S3 session initialized using instance role")
		return nil
	}
	clientLogger.Info().Msg("Could not initialize S3 session using instance role, trying env credentials")

	cfg, err := client.staticConfig()
	if err != nil {
		clientLogger.Error().Err(err).Msg("Could not initialize S3 session")
		return err
	}
	sess, err := verifiedSession(cfg)
	if err != nil {
		clientLogger.Error().Err(err).Msg("Could not initialize S3 session")
		return errors.New("could not initialize S3 session")
	}
	client.holder.curr = sess
	clientLogger.Info().Msg("S3 session initialized using env credentials")
	return nil
}

func verifiedSession(cfg *aws.Config) (*session.Session, error) {
	sess, err := session.NewSession(cfg)
	if err != nil {
		return nil, err
	}
	if _, err = sts.New(sess).GetCallerIdentity(&sts.GetCallerIdentityInput{}); err != nil {
		return nil, err
	}
	return sess, nil
}

type s3Logger struct {
	sdkLogger zerolog.Logger
}

func (l *s3Logger) Log(v ...interface{}) {
	l.sdkLogger.Debug().Msg(fmt.Sprint(v...))
}
