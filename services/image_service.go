package services

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"imoveis-api/domain"
	"imoveis-api/logger"
)

// Tipos de conteúdo aceitos nos uploads
var allowedContentTypes = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
}

// ImageService valida, grava e serve as imagens de imóveis
type ImageService interface {
	// Store grava todos os arquivos no diretório de imagens. Qualquer
	// rejeição ou falha de escrita remove os arquivos já gravados nesta
	// chamada antes de propagar o erro.
	Store(files []*multipart.FileHeader) ([]domain.Image, error)
	// Remove apaga do disco os arquivos das imagens dadas; usado para
	// desfazer uploads quando a transação de banco falha
	Remove(images []domain.Image)
	// Resolve valida o filename e retorna o caminho absoluto dentro do
	// diretório de imagens, ou ErrNotFound
	Resolve(filename string) (string, error)
}

type imageService struct {
	dir      string
	maxBytes int64
}

// NewImageService cria o serviço de imagens garantindo o diretório de destino
func NewImageService(dir string, maxBytes int64) (ImageService, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, fmt.Errorf("creating images dir: %w", err)
	}
	return &imageService{dir: abs, maxBytes: maxBytes}, nil
}

func (s *imageService) Store(files []*multipart.FileHeader) ([]domain.Image, error) {
	saved := make([]domain.Image, 0, len(files))
	for _, fh := range files {
		img, err := s.storeOne(fh)
		if err != nil {
			s.Remove(saved)
			return nil, err
		}
		saved = append(saved, img)
	}
	return saved, nil
}

func (s *imageService) storeOne(fh *multipart.FileHeader) (domain.Image, error) {
	var img domain.Image

	if err := sanitizeFilename(fh.Filename); err != nil {
		return img, err
	}
	if s.maxBytes > 0 && fh.Size > s.maxBytes {
		return img, fmt.Errorf("%w: file %q exceeds %d bytes", domain.ErrValidation, fh.Filename, s.maxBytes)
	}

	contentType := fh.Header.Get("Content-Type")
	ext, ok := allowedContentTypes[contentType]
	if !ok {
		return img, fmt.Errorf("%w: content type %q not allowed, only JPEG or PNG", domain.ErrValidation, contentType)
	}

	src, err := fh.Open()
	if err != nil {
		return img, fmt.Errorf("opening upload: %w", err)
	}
	defer src.Close()

	// O conteúdo também precisa parecer uma imagem do tipo declarado
	head := make([]byte, 512)
	n, err := io.ReadFull(src, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return img, fmt.Errorf("reading upload: %w", err)
	}
	if sniffed := detectContentType(head[:n]); sniffed != contentType {
		return img, fmt.Errorf("%w: file content is %s, declared %s", domain.ErrValidation, sniffed, contentType)
	}

	name := randomName() + ext
	dest := filepath.Join(s.dir, name)
	out, err := os.Create(dest)
	if err != nil {
		return img, fmt.Errorf("creating file: %w", err)
	}

	if _, err := out.Write(head[:n]); err == nil {
		_, err = io.Copy(out, src)
	}
	closeErr := out.Close()
	if err == nil {
		err = closeErr
	}
	if err != nil {
		// Nunca deixamos arquivo parcial no disco
		os.Remove(dest)
		return img, fmt.Errorf("writing file: %w", err)
	}

	img = domain.Image{Filename: name, ContentType: contentType}
	return img, nil
}

func (s *imageService) Remove(images []domain.Image) {
	for _, img := range images {
		path := filepath.Join(s.dir, img.Filename)
		if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
			logger.L.Warn().Err(err).Str("filename", img.Filename).Msg("error removing image file")
		}
	}
}

func (s *imageService) Resolve(filename string) (string, error) {
	if err := sanitizeFilename(filename); err != nil {
		return "", err
	}
	path := filepath.Join(s.dir, filename)
	// Revalida que o caminho resolvido continua dentro do diretório de
	// imagens, mesmo depois do join
	if !strings.HasPrefix(path, s.dir+string(os.PathSeparator)) {
		return "", fmt.Errorf("%w: filename escapes storage root", domain.ErrValidation)
	}
	info, err := os.Stat(path)
	if err != nil || info.IsDir() {
		return "", domain.ErrNotFound
	}
	return path, nil
}

// sanitizeFilename rejeita nomes com separadores de diretório ou segmentos
// de diretório pai (path traversal)
func sanitizeFilename(name string) error {
	if name == "" || name != filepath.Base(name) || strings.Contains(name, "..") {
		return fmt.Errorf("%w: invalid filename %q", domain.ErrValidation, name)
	}
	return nil
}

func randomName() string {
	b := make([]byte, 16)
	if _, err := rand.Read(b); err != nil {
		panic(err)
	}
	return hex.EncodeToString(b)
}

// detectContentType normaliza o sniffing do stdlib para os tipos da allow-list
func detectContentType(head []byte) string {
	switch {
	case len(head) >= 3 && head[0] == 0xFF && head[1] == 0xD8 && head[2] == 0xFF:
		return "image/jpeg"
	case len(head) >= 8 && string(head[:8]) == "\x89PNG\r\n\x1a\n":
		return "image/png"
	default:
		return "application/octet-stream"
	}
}
