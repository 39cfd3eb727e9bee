package imagegen

import "fmt"

const baseModelInstruction = "You are an expert fashion photographer AI. Keep the person's exact face, expression, and body proportions from the original image. " +
	"Do not beautify, slim, or reshape any part of the face or body. Maintain the same weight and physical proportions. " +
	"Only reframe the body into a standing full-length studio posture. " +
	"Transform this image into a full-body, photorealistic fashion model shot suitable for a premium e-commerce website. " +
	"Place the model against a clean, neutral studio backdrop (light gray, #f0f0f0) with soft, even lighting. " +
	"Retain the original facial features, hairstyle, skin tone, and body shape precisely. Do not idealize or alter the figure. " +
	"Adjust the posture only slightly into a natural full-body stance. " +
	"Keep all current clothing and accessories, making them appear well-lit and professional. " +
	"The final image must look real, elegant, and high-quality for fashion retail use."

const compositeInstruction = `You are an expert virtual try-on AI. You will be given a 'model image' and a 'garment image'. Create a new photorealistic image where the person from the 'model image' is wearing the clothing from the 'garment image'.

**Input:**
- Image 1: A photo of a person (the model).
- Image 2: A photo of a garment (the product).

**Crucial Rules:**
1. **PRESERVE THE PERSON:** The person's face, hair, skin tone, body shape, and pose from Image 1 MUST remain unchanged.
2. **PRESERVE THE BACKGROUND:** The entire background from Image 1 MUST be preserved perfectly.
3. **COMPLETE GARMENT REPLACEMENT:** REMOVE and REPLACE the clothing item worn in Image 1 that corresponds to the garment in Image 2. No part of the replaced clothing (collars, sleeves, patterns) may remain visible.
4. **REALISTIC APPLICATION:** The garment must follow the person's pose with natural folds, shadows, and lighting consistent with the original scene.
5. **OUTPUT FORMAT:** Return ONLY the final edited image. No text, descriptions, or explanations.`

const compositeFallbackInstruction = "Dress the person in the first image in the garment shown in the second image. " +
	"Keep the same person, pose, and background. Return only the edited image."

func poseInstruction(pose string) string {
	return fmt.Sprintf("You are an expert fashion photographer AI. Take this image and regenerate it from a different perspective. "+
		"The person, clothing, and background style must remain identical. "+
		"The new perspective should be: %q. Return ONLY the final image.", pose)
}

func poseFallbackInstruction(pose string) string {
	return fmt.Sprintf("Show the same person in the same outfit and setting, photographed as: %q. Return only the image.", pose)
}
