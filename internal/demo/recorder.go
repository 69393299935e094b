package demo

import (
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"
)

// RecordFileName 是麦克风录音上传时使用的文件名
const RecordFileName = "record.wav"

const (
	recordBitDepth = 16
	recordChannels = 1
)

// DecodeFloat32LE 把小端 float32 PCM 字节解码为采样
func DecodeFloat32LE(data []byte) ([]float32, error) {
	if len(data)%4 != 0 {
		return nil, fmt.Errorf("PCM 数据长度 %d 不是 4 的倍数", len(data))
	}
	samples := make([]float32, len(data)/4)
	for i := range samples {
		samples[i] = math.Float32frombits(binary.LittleEndian.Uint32(data[i*4 : i*4+4]))
	}
	return samples, nil
}

// floatToPCM16 把 [-1, 1] 的采样转换为 16 位整数，超出范围的值被截断
func floatToPCM16(samples []float32) []int {
	out := make([]int, len(samples))
	for i, s := range samples {
		v := float64(s)
		if math.IsNaN(v) {
			v = 0
		}
		if v > 1 {
			v = 1
		}
		if v < -1 {
			v = -1
		}
		out[i] = int(math.Round(v * math.MaxInt16))
	}
	return out
}

// EncodeWAV 把单声道采样编码为 16 位 WAV
func EncodeWAV(w io.WriteSeeker, samples []float32, sampleRate int) error {
	if sampleRate <= 0 {
		return fmt.Errorf("无效的采样率: %d", sampleRate)
	}

	buf := &audio.IntBuffer{
		Data:           floatToPCM16(samples),
		Format:         &audio.Format{SampleRate: sampleRate, NumChannels: recordChannels},
		SourceBitDepth: recordBitDepth,
	}

	enc := wav.NewEncoder(w, sampleRate, recordBitDepth, recordChannels, 1)
	if err := enc.Write(buf); err != nil {
		return fmt.Errorf("编码WAV失败: %w", err)
	}
	if err := enc.Close(); err != nil {
		return fmt.Errorf("写入WAV头失败: %w", err)
	}
	return nil
}

// WriteRecording 把录音写入临时 WAV 文件，调用方负责删除
func WriteRecording(dir string, samples []float32, sampleRate int) (string, error) {
	f, err := os.CreateTemp(dir, "record-*.wav")
	if err != nil {
		return "", fmt.Errorf("创建临时文件失败: %w", err)
	}

	if err := EncodeWAV(f, samples, sampleRate); err != nil {
		f.Close()
		os.Remove(f.Name())
		return "", err
	}
	if err := f.Close(); err != nil {
		os.Remove(f.Name())
		return "", fmt.Errorf("关闭临时文件失败: %w", err)
	}
	return f.Name(), nil
}
